package selection

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rshade/contactdeck/internal/contact"
)

// Sorter orders contacts: selected before unselected, then by full name
// using locale-aware collation. A Sorter is not safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter creates a Sorter collating names for the given language.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag)}
}

// Less reports whether a sorts before b given the selection.
func (s *Sorter) Less(a, b contact.Person, sel *Set) bool {
	aSelected, bSelected := sel.Contains(a.ID), sel.Contains(b.ID)
	if aSelected != bSelected {
		return aSelected
	}
	return s.collator.CompareString(a.FirstNameLastName, b.FirstNameLastName) < 0
}

// Sort returns a sorted copy of people. The input slice is not modified and
// equal names keep their original relative order.
func (s *Sorter) Sort(people []contact.Person, sel *Set) []contact.Person {
	sorted := make([]contact.Person, len(people))
	copy(sorted, people)

	sort.SliceStable(sorted, func(i, j int) bool {
		return s.Less(sorted[i], sorted[j], sel)
	})
	return sorted
}
