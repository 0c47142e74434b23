// Package repository maps domain operations onto the keyed-store
// primitives. Each repository owns one entity family and its index
// maintenance; none of them compose data across families.
package repository

import (
	"errors"
	"fmt"

	"workhub-backend/internal/store"
)

// ErrNotFound reports an absent entity, distinct from validation and from
// transient store failure so callers can branch on "doesn't exist".
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

// IsNotFound checks if an error is a repository not found error.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrConflict reports a write precondition violation (duplicate id, unique
// field taken). Retrying with the same input will not help.
type ErrConflict struct {
	Resource string
	ID       string
	Reason   string
}

func (e ErrConflict) Error() string {
	return fmt.Sprintf("conflict with %s '%s': %s", e.Resource, e.ID, e.Reason)
}

// IsConflict checks if an error is a repository conflict error.
func IsConflict(err error) bool {
	var c ErrConflict
	return errors.As(err, &c)
}

// IsUnavailable reports a transient store failure, safe to retry with
// backoff.
func IsUnavailable(err error) bool {
	return errors.Is(err, store.ErrUnavailable)
}

// NewNotFound creates a new ErrNotFound.
func NewNotFound(resource, id string) ErrNotFound {
	return ErrNotFound{Resource: resource, ID: id}
}

// NewConflict creates a new ErrConflict.
func NewConflict(resource, id, reason string) ErrConflict {
	return ErrConflict{Resource: resource, ID: id, Reason: reason}
}
