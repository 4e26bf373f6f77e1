package cmd

import (
	"context"
	"errors"

	clierrors "github.com/salmonumbrella/envkeep/internal/errors"
)

const (
	ExitOK           = 0
	ExitSystem       = 1
	ExitUser         = 2
	ExitTokensFailed = 3
	ExitCanceled     = 130
)

// ExitCode maps a command error to a stable process exit code for automation.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	if clierrors.IsTokensFailedError(err) {
		return ExitTokensFailed
	}
	if clierrors.IsValidationError(err) || clierrors.IsUserError(err) {
		return ExitUser
	}
	return ExitSystem
}
