package source

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is the user-facing message of a simulated failure.
const DefaultFailureMessage = "Something went wrong"

// Common source errors.
var (
	// ErrFetchFailed marks every failure produced by the data source itself.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidCursorPolicy is returned when a policy name is not recognised.
	ErrInvalidCursorPolicy = errors.New("cursor policy must be 'advance' or 'retry'")
)

// FetchError is the failure signal of the data source. Its message is what
// the browser shows to the user.
type FetchError struct {
	// Page is the zero-based index of the page that failed.
	Page    int
	Message string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Message == "" {
		return DefaultFailureMessage
	}
	return e.Message
}

// Unwrap lets errors.Is match ErrFetchFailed.
func (e *FetchError) Unwrap() error {
	return ErrFetchFailed
}

// Describe returns a log-friendly description including the page number.
func (e *FetchError) Describe() string {
	return fmt.Sprintf("page %d: %s", e.Page, e.Error())
}
