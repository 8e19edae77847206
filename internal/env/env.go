// Package env supplies the external lookup collaborator the inliner uses to
// resolve environment-backed literals (the %d{{NAME}} and %b{{NAME}} forms).
package env

import (
	"fmt"
	"os"
	"strconv"
)

// Lookup resolves an environment-backed literal by name. Absence and
// malformed values are distinguished so the inliner can raise the right
// diagnostic code for each.
type Lookup interface {
	LookupInt(name string) (int64, error)
	LookupBool(name string) (bool, error)
}

// ErrMissing reports that name has no entry in the environment.
type ErrMissing struct{ Name string }

func (e *ErrMissing) Error() string { return fmt.Sprintf("environment variable %q is not set", e.Name) }

// ErrParseFailed reports that name was present but could not be parsed as
// the expected type.
type ErrParseFailed struct {
	Name  string
	Value string
	Want  string
}

func (e *ErrParseFailed) Error() string {
	return fmt.Sprintf("environment variable %q = %q is not a valid %s", e.Name, e.Value, e.Want)
}

// OSLookup resolves environment-backed literals against the process
// environment via os.LookupEnv.
type OSLookup struct{}

func (OSLookup) LookupInt(name string) (int64, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, &ErrMissing{Name: name}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ErrParseFailed{Name: name, Value: raw, Want: "int"}
	}
	return v, nil
}

func (OSLookup) LookupBool(name string) (bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return false, &ErrMissing{Name: name}
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ErrParseFailed{Name: name, Value: raw, Want: "bool"}
	}
	return v, nil
}

// MapLookup is a fixed in-memory lookup, used by tests and by callers that
// have already gathered their environment values.
type MapLookup struct {
	Ints  map[string]int64
	Bools map[string]bool
}

func (m MapLookup) LookupInt(name string) (int64, error) {
	if v, ok := m.Ints[name]; ok {
		return v, nil
	}
	return 0, &ErrMissing{Name: name}
}

func (m MapLookup) LookupBool(name string) (bool, error) {
	if v, ok := m.Bools[name]; ok {
		return v, nil
	}
	return false, &ErrMissing{Name: name}
}
