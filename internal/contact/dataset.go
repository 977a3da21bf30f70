package contact

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Dataset validation errors.
var (
	ErrDuplicateID       = errors.New("duplicate contact id")
	ErrInvalidPerson     = errors.New("contact name cannot be empty")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

//go:embed contacts.json
var builtinContacts []byte

// Builtin returns a fresh copy of the dataset compiled into the binary.
func Builtin() ([]Person, error) {
	return Parse(builtinContacts, ".json")
}

// Load reads a dataset from path. An empty path selects the builtin dataset.
// The format is chosen from the file extension: .json, .yaml or .yml.
func Load(path string) ([]Person, error) {
	if path == "" {
		return Builtin()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	people, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}
	return people, nil
}

// Parse decodes a dataset in the format named by ext and normalizes it.
func Parse(data []byte, ext string) ([]Person, error) {
	var people []Person

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &people); err != nil {
			return nil, fmt.Errorf("parsing JSON dataset: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &people); err != nil {
			return nil, fmt.Errorf("parsing YAML dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return Normalize(people)
}

// Normalize trims fields, assigns a UUID to records without an id and
// rejects duplicate ids and nameless records. Order is preserved.
func Normalize(people []Person) ([]Person, error) {
	out := make([]Person, 0, len(people))
	seen := make(map[string]int, len(people))

	for i, p := range people {
		p.ID = strings.TrimSpace(p.ID)
		p.FirstNameLastName = strings.TrimSpace(p.FirstNameLastName)
		p.JobTitle = strings.TrimSpace(p.JobTitle)
		p.EmailAddress = strings.TrimSpace(p.EmailAddress)

		if p.FirstNameLastName == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrInvalidPerson)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if prev, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q at records %d and %d", ErrDuplicateID, p.ID, prev, i)
		}
		seen[p.ID] = i
		out = append(out, p)
	}

	return out, nil
}
