// Package keyed pairs collection elements with the IDs gateways store them
// under.
package keyed

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID     = errors.New("element has an empty id")
	ErrDuplicateID = errors.New("duplicate element id")
)

// Entry is one element and its storage ID.
type Entry[T any] struct {
	ID    string
	Value T
}

// Index keys every element with id, preserving input order. Empty or
// repeated IDs are rejected so a full overwrite never silently drops data.
func Index[T any](elements []T, id func(T) string) ([]Entry[T], error) {
	out := make([]Entry[T], 0, len(elements))
	seen := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		key := id(el)
		if key == "" {
			return nil, ErrEmptyID
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, key)
		}
		seen[key] = struct{}{}
		out = append(out, Entry[T]{ID: key, Value: el})
	}
	return out, nil
}

// IDs returns the keys of entries in order.
func IDs[T any](entries []Entry[T]) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
