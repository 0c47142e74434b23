package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursors are opaque continuation tokens: the base64-encoded JSON of the
// last evaluated key's attributes. All key attributes in this table are
// strings, which keeps the round trip trivial.

func encodeCursor(lastKey map[string]string) string {
	if len(lastKey) == 0 {
		return ""
	}
	data, err := json.Marshal(lastKey)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

func decodeCursor(cursor string) (map[string]string, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	var lastKey map[string]string
	if err := json.Unmarshal(data, &lastKey); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	return lastKey, nil
}

// lastKeyAttrs lists the attributes a continuation key needs for the given
// index: the table key always, plus the index key when one is in play.
func lastKeyAttrs(index string) []string {
	if index == "" {
		return []string{attrPK, attrSK}
	}
	pk, sk := keyAttrs(index)
	return []string{attrPK, attrSK, pk, sk}
}

func cursorFromItem(item Item, index string) string {
	lastKey := make(map[string]string)
	for _, name := range lastKeyAttrs(index) {
		if v := StringAttr(item, name); v != "" {
			lastKey[name] = v
		}
	}
	return encodeCursor(lastKey)
}
