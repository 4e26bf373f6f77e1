// Package redact hides secret values in reports while keeping them
// comparable through stable fingerprints.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Hidden replaces any sensitive value in output.
	Hidden = "<hidden>"
	// Empty marks a value that is empty or was never supplied.
	Empty = "<empty>"
)

// sensitiveParts are name components that mark a token as secret.
// Matching is per underscore-separated component, so DEBUG or LOG_LEVEL
// display through while API_TOKEN and COPILOT_REQUESTS_PAT are hidden.
var sensitiveParts = map[string]struct{}{
	"TOKEN":      {},
	"SECRET":     {},
	"KEY":        {},
	"PAT":        {},
	"PASSWORD":   {},
	"PASSWD":     {},
	"CREDENTIAL": {},
}

// Sensitive reports whether values for the named token must be hidden.
func Sensitive(name string) bool {
	for _, part := range strings.Split(strings.ToUpper(name), "_") {
		if _, ok := sensitiveParts[part]; ok {
			return true
		}
	}
	return false
}

// Fingerprint returns a deterministic one-way digest of value. Equal values
// produce equal fingerprints; the raw value cannot be recovered from it.
func Fingerprint(value string) string {
	sum := sha256.Sum256(append([]byte("value\x00"), value...))
	return "sha256:" + hex.EncodeToString(sum[:])
}

var absentFingerprint = func() string {
	sum := sha256.Sum256([]byte("absent"))
	return "sha256:" + hex.EncodeToString(sum[:])
}()

// AbsentFingerprint identifies a value that was never set. It is distinct
// from Fingerprint(""), so an explicitly stored empty string remains
// distinguishable from an unset variable.
func AbsentFingerprint() string {
	return absentFingerprint
}

// Display returns the reportable form of a token value: Empty for
// empty/absent values, Hidden for sensitive ones, and the raw value for
// non-secret tokens such as plain configuration switches.
func Display(name, value string) string {
	if value == "" {
		return Empty
	}
	if Sensitive(name) {
		return Hidden
	}
	return value
}
