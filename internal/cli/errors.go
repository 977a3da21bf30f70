package cli

import (
	"errors"
	"fmt"
)

// ErrNotTerminal is returned when the browser is started without a terminal.
var ErrNotTerminal = errors.New("the contact browser needs an interactive terminal; use 'contactdeck dump' for non-interactive output")

// ExitError asks main to exit with a specific code.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code: 0 for nil, the code of an
// *ExitError anywhere in the chain, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
