// Package pagination provides the request parameters and result metadata
// shared by commands that walk the contact source page by page.
//
//   - Params: --pages/--retries/--output flag values and their validation
//   - Meta: what a walk fetched, serialized next to the results
package pagination
