// Package source simulates a paginated remote contact API.
//
// The MockSource serves page-sized slices of an in-memory dataset after an
// artificial delay and fails a configurable fraction of calls. Pagination
// state lives in a Cursor owned by the caller, so independent consumers
// (the interactive browser and the dump command) never share a position.
//
// Example usage:
//
//	people, _ := contact.Builtin()
//	src := source.NewMockSource(people, source.WithFailureRate(0))
//	cursor := source.NewCursor()
//	page, err := src.FetchPage(ctx, cursor)
//
// Two cursor policies are supported when a fetch fails:
//   - advance: the cursor moves on anyway, so the next call fetches the next page
//   - retry:   the cursor stays put, so the next call re-attempts the failed page
//
// A Cursor is not safe for concurrent use; callers serialize fetches.
package source
