package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/envkeep/internal/engine"
	"github.com/salmonumbrella/envkeep/internal/errors"
	"github.com/salmonumbrella/envkeep/internal/store"
	"github.com/salmonumbrella/envkeep/internal/ui"
)

func newPersistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Persist tokens into the durable store",
	}
	cmd.AddCommand(newPersistCurrentCmd())
	cmd.AddCommand(newPersistValuesCmd())
	return cmd
}

func newPersistCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current [NAME...]",
		Short: "Persist tokens from the current process environment",
		Long: `Resolve each catalog token from the current process environment and
persist it into the durable store. Without arguments the whole catalog
is processed; with arguments only the named tokens are.

A required token that is absent from the environment is reported as
failed; an optional one as skipped. The batch always runs to the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}
			specs, err := selectSpecs(eng.Specs(), args)
			if err != nil {
				return err
			}
			return printReport(cmd, ctx, eng.PersistCurrent(specs))
		},
	}
}

func newPersistValuesCmd() *cobra.Command {
	var includeExisting bool
	var fromEnv []string

	cmd := &cobra.Command{
		Use:   "values [NAME=VALUE | NAME]...",
		Short: "Persist explicitly provided token values",
		Long: `Persist the given NAME=VALUE pairs into the durable store. A bare
NAME prompts for the value without echoing it.

Catalog tokens not named on the command line are reported as skipped
when optional, or failed when required. Unless --include-existing is
set, a token that already has a non-empty durable value is left as is.`,
		Args: cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			values, err := parseValueArgs(ctx, args)
			if err != nil {
				return err
			}
			for _, name := range fromEnv {
				v, ok := os.LookupEnv(name)
				if !ok {
					return errors.NewUserError(
						fmt.Sprintf("--from-env %s: variable is not set", name),
						"Export the variable first, or pass NAME=VALUE explicitly")
				}
				values[name] = v
			}
			if len(values) == 0 {
				return errors.NewUserError("no values provided",
					"Pass NAME=VALUE pairs, bare names to prompt, or --from-env NAME")
			}

			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}
			return printReport(cmd, ctx, eng.PersistValues(nil, values, includeExisting))
		},
	}

	cmd.Flags().BoolVar(&includeExisting, "include-existing", false, "Overwrite tokens that already have a durable value")
	cmd.Flags().StringArrayVar(&fromEnv, "from-env", nil, "Copy the value from this environment variable (repeatable)")
	return cmd
}

// selectSpecs narrows the catalog to the named tokens. Names outside the
// catalog become ad-hoc required specs so a typo surfaces as a failure
// rather than silence.
func selectSpecs(catalog []engine.TokenSpec, names []string) ([]engine.TokenSpec, error) {
	if len(names) == 0 {
		return nil, nil
	}
	byName := make(map[string]engine.TokenSpec, len(catalog))
	for _, spec := range catalog {
		byName[spec.Name] = spec
	}
	specs := make([]engine.TokenSpec, 0, len(names))
	for _, name := range names {
		if err := store.ValidName(name); err != nil {
			return nil, errors.NewValidationError("name", err.Error())
		}
		if spec, ok := byName[name]; ok {
			specs = append(specs, spec)
			continue
		}
		specs = append(specs, engine.TokenSpec{Name: name, Label: name, Required: true})
	}
	return specs, nil
}

func parseValueArgs(ctx context.Context, args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if err := store.ValidName(name); err != nil {
			return nil, errors.NewValidationError("name", err.Error())
		}
		if !found {
			prompted, err := promptValue(ctx, name)
			if err != nil {
				return nil, err
			}
			value = prompted
		}
		values[name] = value
	}
	return values, nil
}

// promptValue reads a value without echo when stdin is a terminal, and as a
// plain line otherwise (pipes, tests).
func promptValue(ctx context.Context, name string) (string, error) {
	ui.FromContext(ctx).Info("Enter value for %s: ", name)

	if f, ok := stdinFromContext(ctx).(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stderrFromContext(ctx))
		if err != nil {
			return "", fmt.Errorf("failed to read value: %w", err)
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(stdinFromContext(ctx))
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read value: %w", err)
		}
		return "", errors.NewUserError(
			fmt.Sprintf("no value provided for %s", name),
			"Pass NAME=VALUE to supply the value non-interactively")
	}
	return scanner.Text(), nil
}

// printReport emits the report body, writes the optional report file, and
// summarizes on stderr, returning the error that carries the exit code.
func printReport(cmd *cobra.Command, ctx context.Context, rep *engine.Report) error {
	body, err := reportBody(rep)
	if err != nil {
		return err
	}
	writeRunReport(ctx, body)

	opts := globalOptionsFromContext(ctx)
	if err := printerForCommand(cmd, opts).Print(body); err != nil {
		return err
	}

	console := ui.FromContext(ctx)
	s := rep.Summary
	if s.TokensFailed > 0 {
		console.Error("%d token(s) failed, %d persisted, %d skipped", s.TokensFailed, s.TokensModified, s.TokensSkipped)
		return &errors.TokensFailedError{Failed: failedTokenNames(body)}
	}
	console.Success("%d token(s) persisted, %d skipped", s.TokensModified, s.TokensSkipped)
	return nil
}

func reportBody(rep *engine.Report) (map[string]any, error) {
	raw, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return body, nil
}
