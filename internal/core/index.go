package core

import "strings"

// Index is an ordered id → entity lookup.
//
// On duplicate ids the last value wins while the first occurrence keeps its
// position, so iteration order stays the order in which ids were first seen.
// Entities with an empty id are not indexed: nothing can reference them.
type Index[T any] struct {
	order []string
	items map[string]T
}

// NewIndex builds an Index over items using id to extract each key.
func NewIndex[T any](items []T, id func(T) string) *Index[T] {
	ix := &Index[T]{
		order: make([]string, 0, len(items)),
		items: make(map[string]T, len(items)),
	}
	for _, item := range items {
		key := id(item)
		if key == "" {
			continue
		}
		if _, seen := ix.items[key]; !seen {
			ix.order = append(ix.order, key)
		}
		ix.items[key] = item
	}
	return ix
}

// Get returns the entity for id. The empty id never matches.
func (ix *Index[T]) Get(id string) (T, bool) {
	if id == "" {
		var zero T
		return zero, false
	}
	item, ok := ix.items[id]
	return item, ok
}

// Has reports whether id is present.
func (ix *Index[T]) Has(id string) bool {
	_, ok := ix.Get(id)
	return ok
}

// Len returns the number of distinct ids.
func (ix *Index[T]) Len() int {
	return len(ix.order)
}

// Values returns the entities in insertion order.
func (ix *Index[T]) Values() []T {
	out := make([]T, len(ix.order))
	for i, key := range ix.order {
		out[i] = ix.items[key]
	}
	return out
}

// Map returns a new Index with fn applied to every entity. Keys and order are preserved.
func (ix *Index[T]) Map(fn func(T) T) *Index[T] {
	out := &Index[T]{
		order: append([]string(nil), ix.order...),
		items: make(map[string]T, len(ix.items)),
	}
	for key, item := range ix.items {
		out.items[key] = fn(item)
	}
	return out
}

// NameIndex maps a lower-cased entity name to the id of the first entity,
// in index insertion order, carrying that name.
type NameIndex map[string]string

// NewNameIndex builds a case-insensitive name lookup over ix.
func NewNameIndex[T any](ix *Index[T], name func(T) string) NameIndex {
	names := make(NameIndex, ix.Len())
	for _, key := range ix.order {
		n := foldName(name(ix.items[key]))
		if n == "" {
			continue
		}
		if _, taken := names[n]; !taken {
			names[n] = key
		}
	}
	return names
}

// Lookup returns the id registered for name, compared case-insensitively.
func (n NameIndex) Lookup(name string) (string, bool) {
	key := foldName(name)
	if key == "" {
		return "", false
	}
	id, ok := n[key]
	return id, ok
}

// foldName is the single case-folding rule used for every name comparison.
func foldName(s string) string {
	return strings.ToLower(s)
}
