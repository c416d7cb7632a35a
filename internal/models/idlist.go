// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDList is a denormalized adjacency list stored as a JSON-encoded array
// column. Both PostgreSQL and sqlite store it as text.
type IDList []uint

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uint(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IDList) Scan(src interface{}) error {
	if src == nil {
		*l = IDList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("idlist: cannot scan %T", src)
	}
	if len(data) == 0 {
		*l = IDList{}
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("idlist: %w", err)
	}
	*l = ids
	return nil
}

// Contains reports whether id is present in the list.
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id if it is not already present.
func (l IDList) Add(id uint) IDList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove filters every occurrence of id out of the list.
func (l IDList) Remove(id uint) IDList {
	out := l[:0]
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// RemoveAll filters every id in ids out of the list.
func (l IDList) RemoveAll(ids []uint) IDList {
	drop := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := l[:0]
	for _, v := range l {
		if _, ok := drop[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
