package pagination

import (
	"errors"
	"fmt"
	"slices"
)

// Defaults and limits for page walks.
const (
	DefaultPages   = 1
	DefaultRetries = 3
	MinPages       = 1
	MaxRetries     = 100
)

// Output formats.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
	OutputYAML   = "yaml"
)

// Common validation errors.
var (
	ErrInvalidPages     = errors.New("pages must be >= 1")
	ErrInvalidRetries   = errors.New("retries must be between 0 and 100")
	ErrInvalidOutput    = errors.New("output must be one of table, json, ndjson, yaml")
	ErrMetaNotSupported = errors.New("--meta needs a structured output (json or yaml)")
)

// Params holds the flag values of a page walk.
type Params struct {
	// Pages is the maximum number of pages to fetch.
	Pages int

	// Retries is how many times a failed fetch is repeated before giving up.
	Retries int

	// Output is the result format.
	Output string

	// WithMeta wraps structured output in an envelope carrying Meta.
	WithMeta bool
}

// NewParams returns Params with default values.
func NewParams() *Params {
	return &Params{
		Pages:   DefaultPages,
		Retries: DefaultRetries,
		Output:  OutputTable,
	}
}

// Validate checks the parameters and reports every problem found.
func (p Params) Validate() error {
	var errs []error

	if p.Pages < MinPages {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidPages, p.Pages))
	}
	if p.Retries < 0 || p.Retries > MaxRetries {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidRetries, p.Retries))
	}
	if !slices.Contains(Outputs(), p.Output) {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidOutput, p.Output))
	} else if p.WithMeta && !p.IsStructured() {
		errs = append(errs, ErrMetaNotSupported)
	}

	return errors.Join(errs...)
}

// IsStructured reports whether the output is a single JSON or YAML document.
func (p Params) IsStructured() bool {
	return p.Output == OutputJSON || p.Output == OutputYAML
}

// Outputs returns the supported output formats.
func Outputs() []string {
	return []string{OutputTable, OutputJSON, OutputNDJSON, OutputYAML}
}
