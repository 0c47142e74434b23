package domain

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps are persisted as RFC3339 strings so that lexicographic order
// on sort keys matches chronological order.
const TimeLayout = time.RFC3339

// NewID returns a generated entity identifier.
func NewID() string {
	return uuid.NewString()
}

// NowISO formats the given time for persistence.
func NowISO(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// IndexKeys is the full set of secondary-index key attributes for an item.
// A nil value for an index pair means the item is not projected into that
// index. Repositories rewrite these attributes on every create and every
// update so that index lookups never observe stale positions.
type IndexKeys map[string]string

// Audited carries the timestamps shared by all long-lived entities.
type Audited struct {
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt" json:"updatedAt"`
}
