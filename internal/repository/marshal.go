package repository

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// attrEntityType tags every item with its family, which keeps mixed
// partitions (USER#<id> holds profile, rooms, notifications, ...)
// filterable.
const attrEntityType = "entityType"

// marshalItem converts an entity into a table item: its attributes plus the
// primary key, the entity tag, and the current secondary-index projection.
// Index attributes are always written in full and stale ones removed, so
// an item can never linger under an old index position.
func marshalItem(entity any, key store.Key, entityType string, idx domain.IndexKeys) (store.Item, error) {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", entityType, err)
	}
	item["PK"] = store.S(key.PK)
	item["SK"] = store.S(key.SK)
	item[attrEntityType] = store.S(entityType)
	applyIndexKeys(item, idx)
	return item, nil
}

// applyIndexKeys rewrites all six GSI attributes from the derived set,
// clearing any pair the entity no longer projects into.
func applyIndexKeys(item store.Item, idx domain.IndexKeys) {
	all := []string{
		domain.AttrGSI1PK, domain.AttrGSI1SK,
		domain.AttrGSI2PK, domain.AttrGSI2SK,
		domain.AttrGSI3PK, domain.AttrGSI3SK,
	}
	for _, name := range all {
		if v, ok := idx[name]; ok && v != "" {
			item[name] = store.S(v)
		} else {
			delete(item, name)
		}
	}
}

// staleIndexAttrs lists the GSI attributes absent from the derived set;
// update paths must remove them from the stored item.
func staleIndexAttrs(idx domain.IndexKeys) []string {
	all := []string{
		domain.AttrGSI1PK, domain.AttrGSI1SK,
		domain.AttrGSI2PK, domain.AttrGSI2SK,
		domain.AttrGSI3PK, domain.AttrGSI3SK,
	}
	stale := make([]string, 0, len(all))
	for _, name := range all {
		if v, ok := idx[name]; !ok || v == "" {
			stale = append(stale, name)
		}
	}
	return stale
}

// unmarshalItem parses a table item back into the entity type.
func unmarshalItem[T any](item store.Item) (*T, error) {
	var entity T
	if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &entity, nil
}

// unmarshalItems parses a query page.
func unmarshalItems[T any](items []store.Item) ([]*T, error) {
	entities := make([]*T, 0, len(items))
	for _, item := range items {
		entity, err := unmarshalItem[T](item)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// updateSet builds the Set half of a merge update from the full marshalled
// entity, leaving the primary key untouched.
func updateSet(item store.Item) store.Item {
	set := make(store.Item, len(item))
	for name, av := range item {
		if name == "PK" || name == "SK" {
			continue
		}
		set[name] = av
	}
	return set
}
