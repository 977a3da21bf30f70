package pagination

import (
	"fmt"
	"math"
)

// Meta describes what a page walk fetched.
type Meta struct {
	PagesFetched int  `json:"pages_fetched" yaml:"pages_fetched"`
	PageSize     int  `json:"page_size"     yaml:"page_size"`
	Items        int  `json:"items"         yaml:"items"`
	TotalItems   int  `json:"total_items"   yaml:"total_items"`
	TotalPages   int  `json:"total_pages"   yaml:"total_pages"`
	Failures     int  `json:"failures"      yaml:"failures"`
	HasNext      bool `json:"has_next"      yaml:"has_next"`
}

// NewMeta builds metadata for a walk over a source of totalItems records.
// nextPage is the index of the page a further fetch would return.
func NewMeta(pageSize, totalItems, pagesFetched, items, failures, nextPage int) Meta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
	}

	return Meta{
		PagesFetched: pagesFetched,
		PageSize:     pageSize,
		Items:        items,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		Failures:     failures,
		HasNext:      nextPage < totalPages,
	}
}

// String returns a one-line human summary.
func (m Meta) String() string {
	more := ""
	if m.HasNext {
		more = ", more available"
	}
	return fmt.Sprintf("%d contacts from %d pages (%d failed fetches%s)",
		m.Items, m.PagesFetched, m.Failures, more)
}
