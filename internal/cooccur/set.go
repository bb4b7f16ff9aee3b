package cooccur

import "github.com/zeebo/xxh3"

// Set is a finite set of elements, the unit of ingestion. Within one Add
// call each element contributes at most once per side.
type Set[T comparable] map[T]struct{}

// NewSet builds a Set from the given items, deduplicating as it goes.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Insert adds item to the set.
func (s Set[T]) Insert(item T) {
	s[item] = struct{}{}
}

// Contains reports whether item is in the set.
func (s Set[T]) Contains(item T) bool {
	_, ok := s[item]
	return ok
}

// NewStrings returns an accumulator over string elements on both sides,
// using xxh3 for the rank tie-break hashes. xxh3 is stable across processes
// and platforms, so rankings are reproducible run to run.
func NewStrings() *Accumulator[string, string] {
	return New[string, string](xxh3.HashString, xxh3.HashString)
}
