package cmd

import (
	"context"
	"fmt"

	clierrors "github.com/salmonumbrella/envkeep/internal/errors"
)

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if clierrors.IsTokensFailedError(err) {
		// Token failures are already reported inside the run body.
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
	if suggestion := clierrors.UserSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintf(stderrFromContext(ctx), "Hint: %s\n", suggestion)
	}
}
