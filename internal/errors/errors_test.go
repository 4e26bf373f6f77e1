package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("parameters.action", "must be one of persist-current, persist-values")

	expected := "validation error for parameters.action: must be one of persist-current, persist-values"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should return true for ValidationError")
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("no values provided", "Pass NAME=VALUE arguments or use --from-env")

	if err.Error() != "no values provided" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !IsUserError(err) {
		t.Error("IsUserError should return true for UserError")
	}
	if got := UserSuggestion(err); got != "Pass NAME=VALUE arguments or use --from-env" {
		t.Errorf("UserSuggestion = %q", got)
	}
}

func TestWrapUserError(t *testing.T) {
	inner := errors.New("parse failure")
	err := WrapUserError(inner, "invalid request payload", "Check the JSON syntax")

	if !errors.Is(err, inner) {
		t.Error("wrapped error should unwrap to the inner error")
	}
	if err.Error() != "invalid request payload: parse failure" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestStoreError(t *testing.T) {
	inner := errors.New("keyring locked")
	err := &StoreError{Op: "write", Name: "SLACK_TOKEN", Err: inner}

	if err.Error() != "store write SLACK_TOKEN: keyring locked" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !IsStoreError(err) {
		t.Error("IsStoreError should return true for StoreError")
	}
	if !errors.Is(err, inner) {
		t.Error("StoreError should unwrap to the inner error")
	}
}

func TestTokensFailedError(t *testing.T) {
	one := &TokensFailedError{Failed: []string{"SLACK_TOKEN"}}
	if one.Error() != "1 token could not be persisted: SLACK_TOKEN" {
		t.Errorf("unexpected singular message: %q", one.Error())
	}

	many := &TokensFailedError{Failed: []string{"SLACK_TOKEN", "COPILOT_REQUESTS_PAT", "SLACK_BOT_TOKEN"}}
	if many.Error() != "3 tokens could not be persisted: SLACK_TOKEN, COPILOT_REQUESTS_PAT, SLACK_BOT_TOKEN" {
		t.Errorf("unexpected plural message: %q", many.Error())
	}

	wrapped := fmt.Errorf("run: %w", many)
	if !IsTokensFailedError(wrapped) {
		t.Error("IsTokensFailedError should see through wrapping")
	}
}

func TestUserSuggestion_NonUserError(t *testing.T) {
	if got := UserSuggestion(errors.New("plain")); got != "" {
		t.Errorf("UserSuggestion for plain error = %q, want empty", got)
	}
}
