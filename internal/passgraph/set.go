package passgraph

import "slices"

// orderedSet is a set that remembers insertion order, which keeps every
// derived ordering independent of map iteration.
type orderedSet[T comparable] struct {
	index map[T]struct{}
	items []T
}

func (s *orderedSet[T]) add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet[T]) has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *orderedSet[T]) len() int {
	return len(s.items)
}

func (s *orderedSet[T]) values() []T {
	return slices.Clone(s.items)
}

func (s *orderedSet[T]) reset() {
	clear(s.index)
	s.items = s.items[:0]
}
