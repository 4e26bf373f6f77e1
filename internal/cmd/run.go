package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/envkeep/internal/contract"
	"github.com/salmonumbrella/envkeep/internal/engine"
	"github.com/salmonumbrella/envkeep/internal/errors"
	"github.com/salmonumbrella/envkeep/internal/report"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [payload-file]",
		Short: "Execute a JSON contract payload",
		Long: `Read a JSON request payload from a file (or stdin when the argument
is omitted or '-'), validate it against the input contract, execute the
requested action, and print the validated response body.

Exit codes: 0 on success, 2 when the payload fails validation, 3 when
one or more tokens could not be persisted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			payload, err := readPayload(ctx, args)
			if err != nil {
				return err
			}

			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}

			body := contract.NewRunner(eng).Run(payload)
			writeRunReport(ctx, body)

			opts := globalOptionsFromContext(ctx)
			if err := printerForCommand(cmd, opts).Print(body); err != nil {
				return err
			}
			return errorForBody(body)
		},
	}
}

func readPayload(ctx context.Context, args []string) (any, error) {
	var in io.Reader
	if len(args) == 0 || args[0] == "-" {
		in = stdinFromContext(ctx)
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, errors.WrapUserError(err,
				fmt.Sprintf("cannot read payload file %q", args[0]),
				"Pass a JSON file path, or '-' to read from stdin")
		}
		defer f.Close()
		in = f
	}

	var payload any
	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.WrapUserError(err, "payload is not valid JSON",
			"The request must be a single JSON object")
	}
	return payload, nil
}

// newEngine wires the durable store and the effective token catalog.
func newEngine(ctx context.Context) (*engine.Engine, error) {
	st, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(st, engine.WithSpecs(effectiveSpecs(ctx))), nil
}

// effectiveSpecs resolves the token catalog without touching the store:
// the config override when present, the built-in catalog otherwise.
func effectiveSpecs(ctx context.Context) []engine.TokenSpec {
	if specs := ConfigFromContext(ctx).TokenSpecs(); specs != nil {
		return specs
	}
	return engine.DefaultSpecs()
}

// writeRunReport persists the response body as a timestamped report file
// when a reports directory is configured. Failures are logged, not fatal.
func writeRunReport(ctx context.Context, body map[string]any) {
	dir := globalOptionsFromContext(ctx).reportsDir
	if dir == "" {
		return
	}
	path, err := report.Write(dir, body)
	if err != nil {
		slog.Warn("failed to write run report", "dir", dir, "error", err)
		return
	}
	slog.Debug("wrote run report", "path", path)
}

// errorForBody converts a response body's exit code into the command error
// that produces the matching process exit code.
func errorForBody(body map[string]any) error {
	switch contract.ExitCodeOf(body) {
	case contract.ExitInvalidRequest:
		return errors.NewUserError(contract.InvalidPayloadMessage,
			"Check the request against the input schema (envkeep specs --schema)")
	case engine.ExitTokensFailed:
		return &errors.TokensFailedError{Failed: failedTokenNames(body)}
	}
	return nil
}

func failedTokenNames(body map[string]any) []string {
	results, _ := body["results"].([]any)
	var failed []string
	for _, r := range results {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if m["status"] == string(engine.StatusFailed) {
			if name, ok := m["name"].(string); ok {
				failed = append(failed, name)
			}
		}
	}
	return failed
}
