// Package store abstracts the durable, user-scoped variable store that
// token values are persisted into. Backends are substitutable behind the
// two-operation Store contract; the engine never depends on a concrete one.
package store

import (
	"fmt"
	"regexp"
)

// Store reads and writes single named variables in durable storage.
//
// Read returns the current durable value, or the empty string when the
// variable is unset. Write must be idempotent: setting the same value twice
// yields the same durable state and is not an error. Both operations are
// single synchronous calls with no retries.
type Store interface {
	Read(name string) (string, error)
	Write(name, value string) error
}

// namePattern matches portable environment-variable identifiers. Names are
// also interpolated into backend commands, so anything else is rejected
// before it reaches a command line.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName rejects names that are not plain environment-variable
// identifiers.
func ValidName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	return nil
}
