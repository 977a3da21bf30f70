// Package selection tracks which contacts the user picked and orders the
// list so that picked contacts come first.
package selection

import "sort"

// Set is an id-keyed selection. The zero value is not usable; call NewSet.
type Set struct {
	ids map[string]struct{}
}

// NewSet creates an empty selection.
func NewSet() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Set) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Contains reports whether id is selected.
func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Set) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in ascending order.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
