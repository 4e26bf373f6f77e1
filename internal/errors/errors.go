// Package errors defines the typed errors the CLI maps to exit codes.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UserError represents an error caused by user input or configuration.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// WrapUserError wraps an underlying error with a user-facing message and suggestion.
func WrapUserError(err error, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Err: err}
}

// StoreError wraps a durable-store backend failure with the operation and
// variable it happened on.
type StoreError struct {
	Op   string // "read" or "write"
	Name string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// TokensFailedError signals that the run completed but one or more required
// tokens could not be persisted. It exists so the process exit code can
// distinguish partial failure from a bad request.
type TokensFailedError struct {
	Failed []string
}

func (e *TokensFailedError) Error() string {
	if len(e.Failed) == 1 {
		return fmt.Sprintf("1 token could not be persisted: %s", e.Failed[0])
	}
	return fmt.Sprintf("%d tokens could not be persisted: %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

// Type checkers
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

func IsStoreError(err error) bool {
	var e *StoreError
	return errors.As(err, &e)
}

func IsTokensFailedError(err error) bool {
	var e *TokensFailedError
	return errors.As(err, &e)
}

// UserSuggestion returns a suggestion string if err is a UserError.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	return ""
}
