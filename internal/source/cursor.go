package source

import (
	"fmt"
	"strings"
)

// CursorPolicy decides what happens to a cursor when a fetch fails.
type CursorPolicy string

const (
	// CursorAdvance moves the cursor on every attempt, successful or not.
	CursorAdvance CursorPolicy = "advance"
	// CursorRetry only moves the cursor when a page was delivered.
	CursorRetry CursorPolicy = "retry"
)

// ParseCursorPolicy converts a config or flag value into a CursorPolicy.
// An empty string selects CursorAdvance.
func ParseCursorPolicy(s string) (CursorPolicy, error) {
	switch CursorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CursorAdvance:
		return CursorAdvance, nil
	case CursorRetry:
		return CursorRetry, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidCursorPolicy, s)
	}
}

// Cursor is the pagination context of one consumer. The zero value points
// before the first page.
type Cursor struct {
	next     int
	attempts int
	failures int
}

// NewCursor returns a cursor positioned before the first page.
func NewCursor() *Cursor {
	return &Cursor{}
}

// Next returns the index of the next page to fetch.
func (c *Cursor) Next() int {
	return c.next
}

// Attempts returns how many fetches were made with this cursor.
func (c *Cursor) Attempts() int {
	return c.attempts
}

// Failures returns how many of those fetches failed.
func (c *Cursor) Failures() int {
	return c.failures
}

// record books one attempt against the cursor according to policy.
func (c *Cursor) record(policy CursorPolicy, failed bool) {
	c.attempts++
	if failed {
		c.failures++
		if policy == CursorRetry {
			return
		}
	}
	c.next++
}
