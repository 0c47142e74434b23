package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putTestItem(t *testing.T, s *MemoryStore, pk, sk string, extra map[string]string) {
	t.Helper()
	item := Item{attrPK: S(pk), attrSK: S(sk)}
	for name, value := range extra {
		item[name] = S(value)
	}
	require.NoError(t, s.Put(context.Background(), item, PutOptions{}))
}

func TestPutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	putTestItem(t, s, "USER#1", "PROFILE", map[string]string{"name": "ada"})

	item, err := s.Get(context.Background(), Key{PK: "USER#1", SK: "PROFILE"})
	require.NoError(t, err)
	assert.Equal(t, "ada", StringAttr(item, "name"))

	_, err = s.Get(context.Background(), Key{PK: "USER#1", SK: "MISSING"})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPutIfNotExists(t *testing.T) {
	s := NewMemoryStore()
	item := Item{attrPK: S("USER#1"), attrSK: S("PROFILE")}

	require.NoError(t, s.Put(context.Background(), item, PutOptions{IfNotExists: true}))
	err := s.Put(context.Background(), item, PutOptions{IfNotExists: true})
	assert.ErrorIs(t, err, ErrConditionFailed)

	// Unconditional put overwrites.
	require.NoError(t, s.Put(context.Background(), item, PutOptions{}))
}

func TestQuerySortPrefixAndOrder(t *testing.T) {
	s := NewMemoryStore()
	for i := 1; i <= 3; i++ {
		putTestItem(t, s, "ROOM#r1", fmt.Sprintf("MSG#2026-01-0%dT00:00:00Z#m%d", i, i), nil)
	}
	putTestItem(t, s, "ROOM#r1", "METADATA", nil)

	result, err := s.Query(context.Background(), Query{
		Partition:  "ROOM#r1",
		SortPrefix: "MSG#",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "MSG#2026-01-01T00:00:00Z#m1", StringAttr(result.Items[0], attrSK))

	result, err = s.Query(context.Background(), Query{
		Partition:  "ROOM#r1",
		SortPrefix: "MSG#",
		Backward:   true,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "MSG#2026-01-03T00:00:00Z#m3", StringAttr(result.Items[0], attrSK))
}

func TestQuerySortRange(t *testing.T) {
	s := NewMemoryStore()
	for _, due := range []string{"2026-01-10", "2026-02-10", "2026-03-10"} {
		putTestItem(t, s, "P", "DUE#"+due, nil)
	}

	result, err := s.Query(context.Background(), Query{
		Partition: "P",
		SortLow:   "DUE#2026-01-15",
		SortHigh:  "DUE#2026-02-28",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "DUE#2026-02-10", StringAttr(result.Items[0], attrSK))
}

func TestQuerySecondaryIndexProjection(t *testing.T) {
	s := NewMemoryStore()
	putTestItem(t, s, "ORDER#o1", "METADATA", map[string]string{
		"GSI1PK": "ORDER_STATUS#OPEN",
		"GSI1SK": "2026-01-01T00:00:00Z#o1",
	})
	// No GSI1 attributes: invisible to the index.
	putTestItem(t, s, "ORDER#o2", "METADATA", nil)

	result, err := s.Query(context.Background(), Query{
		Index:     "GSI1",
		Partition: "ORDER_STATUS#OPEN",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "ORDER#o1", StringAttr(result.Items[0], attrPK))
}

func TestQueryPaginationCursor(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		putTestItem(t, s, "U", fmt.Sprintf("N#%d", i), nil)
	}

	var seen []string
	cursor := ""
	for {
		result, err := s.Query(context.Background(), Query{
			Partition: "U",
			Limit:     2,
			Cursor:    cursor,
		})
		require.NoError(t, err)
		for _, item := range result.Items {
			seen = append(seen, StringAttr(item, attrSK))
		}
		if result.NextCursor == "" {
			break
		}
		cursor = result.NextCursor
	}
	assert.Equal(t, []string{"N#0", "N#1", "N#2", "N#3", "N#4"}, seen)
}

func TestQueryFilters(t *testing.T) {
	s := NewMemoryStore()
	putTestItem(t, s, "U", "A", map[string]string{"entityType": "USER"})
	putTestItem(t, s, "U", "B", map[string]string{"entityType": "ORDER"})

	result, err := s.Query(context.Background(), Query{
		Partition: "U",
		Filters:   map[string]string{"entityType": "USER"},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "A", StringAttr(result.Items[0], attrSK))
}

func TestUpdateMergeAndRemove(t *testing.T) {
	s := NewMemoryStore()
	putTestItem(t, s, "USER#1", "PROFILE", map[string]string{"name": "ada", "city": "berlin"})

	updated, err := s.Update(context.Background(), Update{
		Key:    Key{PK: "USER#1", SK: "PROFILE"},
		Set:    Item{"name": S("grace")},
		Remove: []string{"city"},
	})
	require.NoError(t, err)
	assert.Equal(t, "grace", StringAttr(updated, "name"))
	assert.Empty(t, StringAttr(updated, "city"))
}

func TestUpdateRequireExists(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Update(context.Background(), Update{
		Key:           Key{PK: "USER#1", SK: "PROFILE"},
		Set:           Item{"name": S("ada")},
		RequireExists: true,
	})
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Without the flag the update upserts.
	item, err := s.Update(context.Background(), Update{
		Key: Key{PK: "USER#1", SK: "PROFILE"},
		Set: Item{"name": S("ada")},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", StringAttr(item, "name"))
	assert.Equal(t, "USER#1", StringAttr(item, attrPK))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	putTestItem(t, s, "USER#1", "PROFILE", nil)

	require.NoError(t, s.Delete(context.Background(), Key{PK: "USER#1", SK: "PROFILE"}))
	require.NoError(t, s.Delete(context.Background(), Key{PK: "USER#1", SK: "PROFILE"}))

	_, err := s.Get(context.Background(), Key{PK: "USER#1", SK: "PROFILE"})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestScanWithFilterAndLimit(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 4; i++ {
		putTestItem(t, s, fmt.Sprintf("USER#%d", i), "PROFILE", map[string]string{"entityType": "USER"})
	}
	putTestItem(t, s, "ORDER#1", "METADATA", map[string]string{"entityType": "ORDER"})

	items, err := s.Scan(context.Background(), map[string]string{"entityType": "USER"}, 0)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	items, err = s.Scan(context.Background(), map[string]string{"entityType": "USER"}, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
