package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/envkeep/internal/engine"
	"github.com/salmonumbrella/envkeep/internal/errors"
	"github.com/salmonumbrella/envkeep/internal/tui"
)

func newUICmd() *cobra.Command {
	var includeExisting bool

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Enter token values interactively",
		Long: `Open an interactive form with one masked field per catalog token.
Submitting the form persists the entered values; fields left blank are
skipped (or failed, when the token is required).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.NewUserError("the ui command needs a terminal",
					"Use 'envkeep persist values' or 'envkeep run' in scripts")
			}

			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}

			model := tui.NewModel(eng.Specs(), func(values map[string]string) *engine.Report {
				return eng.PersistValues(nil, values, includeExisting)
			})

			final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("ui failed: %w", err)
			}

			rep := final.(tui.Model).Report()
			if rep == nil {
				return nil // canceled before submitting
			}

			body, err := reportBody(rep)
			if err != nil {
				return err
			}
			writeRunReport(ctx, body)

			if rep.Summary.TokensFailed > 0 {
				return &errors.TokensFailedError{Failed: failedTokenNames(body)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeExisting, "include-existing", false, "Overwrite tokens that already have a durable value")
	return cmd
}
