// Package store provides the keyed-store primitives every repository is
// built on: Put, Get, Query, Update and Delete over a single table of
// (PK, SK)-addressed items with up to three secondary indexes.
//
// Two implementations exist: DynamoStore for production and MemoryStore for
// tests and local runs. Both honor the same contract, so repository tests
// exercise real query semantics without a live table.
package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a raw table item in DynamoDB attribute form.
type Item = map[string]types.AttributeValue

// Key addresses exactly one item.
type Key struct {
	PK string
	SK string
}

var (
	// ErrItemNotFound is returned by Get for an absent key, and via
	// condition failure by Update with RequireExists.
	ErrItemNotFound = errors.New("item not found")

	// ErrConditionFailed signals a write precondition violation (item
	// already exists, or required item missing). Retrying without changing
	// input will not help.
	ErrConditionFailed = errors.New("condition failed")

	// ErrUnavailable signals a transient store failure; callers may retry
	// with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

// PutOptions controls conditional puts.
type PutOptions struct {
	// IfNotExists fails the put with ErrConditionFailed when an item with
	// the same primary key already exists.
	IfNotExists bool
}

// Query describes a partition-scoped read. Exactly one of the sort-key
// conditions may be set; none means "every item in the partition".
type Query struct {
	// Index selects a secondary index by name; empty queries the table.
	Index string

	// Partition is the exact partition key value to match.
	Partition string

	// SortPrefix restricts results to sort keys with this prefix.
	SortPrefix string

	// SortLow/SortHigh restrict results to an inclusive sort-key range.
	SortLow  string
	SortHigh string

	// Filters are equality conditions on string attributes, applied after
	// the key condition.
	Filters map[string]string

	// Limit caps the number of returned items; zero means no cap.
	Limit int32

	// Backward reverses the sort-key order.
	Backward bool

	// Cursor resumes a previous query from its NextCursor.
	Cursor string
}

// QueryResult carries one page of items and the continuation cursor, empty
// when the query is exhausted.
type QueryResult struct {
	Items      []Item
	NextCursor string
}

// Update describes a partial attribute merge on one item.
type Update struct {
	Key Key

	// Set attributes are written as given; Remove attributes are deleted.
	Set    Item
	Remove []string

	// RequireExists fails with ErrItemNotFound when the item is absent,
	// instead of creating it.
	RequireExists bool
}

// Store is the keyed-store client contract.
type Store interface {
	Put(ctx context.Context, item Item, opts PutOptions) error
	Get(ctx context.Context, key Key) (Item, error)
	Query(ctx context.Context, q Query) (QueryResult, error)
	Update(ctx context.Context, u Update) (Item, error)
	Delete(ctx context.Context, key Key) error

	// Scan walks the whole table with optional equality filters. It exists
	// only for bounded admin and maintenance paths (telegram broadcast
	// listing, connection sweeps) and must not appear on request-serving
	// code paths.
	Scan(ctx context.Context, filters map[string]string, limit int32) ([]Item, error)
}

// Key attribute names, per index.
const (
	attrPK = "PK"
	attrSK = "SK"
)

// keyAttrs maps an index name to its partition/sort attribute names.
func keyAttrs(index string) (string, string) {
	switch index {
	case "":
		return attrPK, attrSK
	default:
		return index + "PK", index + "SK"
	}
}

// S wraps a string attribute value.
func S(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// N wraps a numeric attribute value.
func N(v string) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: v}
}

// B wraps a boolean attribute value.
func B(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}

// StringAttr reads a string attribute, returning "" when absent or not a
// string.
func StringAttr(item Item, name string) string {
	if av, ok := item[name].(*types.AttributeValueMemberS); ok {
		return av.Value
	}
	return ""
}

// NumberAttr reads a numeric attribute's raw string form.
func NumberAttr(item Item, name string) string {
	if av, ok := item[name].(*types.AttributeValueMemberN); ok {
		return av.Value
	}
	return ""
}
