package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local runs. It
// mirrors DynamoDB's query semantics over the same key layout, including
// secondary-index projection via the GSI key attributes on each item.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Item)}
}

func memKey(pk, sk string) string {
	return pk + "\x00" + sk
}

func cloneItem(item Item) Item {
	clone := make(Item, len(item))
	for name, av := range item {
		clone[name] = av
	}
	return clone
}

func (s *MemoryStore) Put(ctx context.Context, item Item, opts PutOptions) error {
	key := memKey(StringAttr(item, attrPK), StringAttr(item, attrSK))

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.IfNotExists {
		if _, exists := s.items[key]; exists {
			return ErrConditionFailed
		}
	}
	s.items[key] = cloneItem(item)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key Key) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[memKey(key.PK, key.SK)]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) (QueryResult, error) {
	pkAttr, skAttr := keyAttrs(q.Index)

	s.mu.RLock()
	matched := make([]Item, 0)
	for _, item := range s.items {
		if StringAttr(item, pkAttr) != q.Partition {
			continue
		}
		sk := StringAttr(item, skAttr)
		if q.Index != "" && sk == "" {
			continue // not projected into this index
		}
		switch {
		case q.SortPrefix != "" && !strings.HasPrefix(sk, q.SortPrefix):
			continue
		case q.SortLow != "" && q.SortHigh != "" && (sk < q.SortLow || sk > q.SortHigh):
			continue
		}
		if !matchFilters(item, q.Filters) {
			continue
		}
		matched = append(matched, cloneItem(item))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		si, sj := StringAttr(matched[i], skAttr), StringAttr(matched[j], skAttr)
		if si != sj {
			return si < sj
		}
		return memKey(StringAttr(matched[i], attrPK), StringAttr(matched[i], attrSK)) <
			memKey(StringAttr(matched[j], attrPK), StringAttr(matched[j], attrSK))
	})
	if q.Backward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	if q.Cursor != "" {
		lastKey, err := decodeCursor(q.Cursor)
		if err != nil {
			return QueryResult{}, err
		}
		for i, item := range matched {
			if StringAttr(item, attrPK) == lastKey[attrPK] &&
				StringAttr(item, attrSK) == lastKey[attrSK] {
				matched = matched[i+1:]
				break
			}
		}
	}

	result := QueryResult{Items: matched}
	if q.Limit > 0 && int32(len(matched)) > q.Limit {
		result.Items = matched[:q.Limit]
		result.NextCursor = cursorFromItem(result.Items[len(result.Items)-1], q.Index)
	}
	return result, nil
}

func (s *MemoryStore) Update(ctx context.Context, u Update) (Item, error) {
	key := memKey(u.Key.PK, u.Key.SK)

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[key]
	if !exists {
		if u.RequireExists {
			return nil, ErrItemNotFound
		}
		item = keyToItem(u.Key)
	}

	merged := cloneItem(item)
	for name, av := range u.Set {
		merged[name] = av
	}
	for _, name := range u.Remove {
		delete(merged, name)
	}
	s.items[key] = merged
	return cloneItem(merged), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, memKey(key.PK, key.SK))
	return nil
}

func (s *MemoryStore) Scan(ctx context.Context, filters map[string]string, limit int32) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]Item, 0)
	for _, key := range keys {
		if !matchFilters(s.items[key], filters) {
			continue
		}
		items = append(items, cloneItem(s.items[key]))
		if limit > 0 && int32(len(items)) >= limit {
			break
		}
	}
	return items, nil
}

func matchFilters(item Item, filters map[string]string) bool {
	for name, value := range filters {
		if StringAttr(item, name) != value {
			return false
		}
	}
	return true
}
