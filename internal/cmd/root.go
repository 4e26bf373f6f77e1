package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/envkeep/internal/config"
	"github.com/salmonumbrella/envkeep/internal/logging"
	"github.com/salmonumbrella/envkeep/internal/ui"
)

func newRootCmd(app *App) *cobra.Command {
	// Global flags
	var (
		debugMode    bool
		quietFlag    bool
		compactJSON  bool
		queryFlag    string
		jsonPathFlag string
		colorFlag    string
		backendFlag  string
		reportsDir   string
	)

	rootCmd := &cobra.Command{
		Use:   "envkeep",
		Short: "Persist named tokens into the user environment",
		Long: `envkeep captures secrets from the current process environment or from
explicit values and persists them into a durable, user-scoped store,
so that new shells and sessions see them without re-exporting.

Values never appear in output; results show placeholders and value
fingerprints instead.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Error/usage text is printed centrally, not by Cobra.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			logging.Setup(debugMode, app.Stderr)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			opts := globalOptions{
				debug:      debugMode,
				quiet:      quietFlag,
				compact:    compactJSON,
				query:      queryFlag,
				jsonPath:   jsonPathFlag,
				backend:    backendFlag,
				reportsDir: reportsDir,
			}
			if opts.reportsDir == "" {
				opts.reportsDir = cfg.ReportsDir
			}

			ctx := cmd.Context()
			ctx = WithConfig(ctx, cfg)
			ctx = withGlobalOptions(ctx, opts)
			ctx = withStderr(ctx, app.Stderr)

			colorMode := colorFlag
			if colorMode == "" {
				colorMode = cfg.Color
			}
			console := ui.NewWithWriter(app.Stderr, ui.ParseColorMode(colorMode))
			if quietFlag {
				console = console.Quiet()
			}
			ctx = ui.WithUI(ctx, console)

			app.runContext = ctx
			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("envkeep %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&compactJSON, "compact-json", false, "Output compact JSON (single-line) instead of pretty JSON")
	rootCmd.PersistentFlags().StringVarP(&queryFlag, "query", "q", "", "JQ expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&jsonPathFlag, "jsonpath", "", "Extract a value using JSONPath (e.g. $.summary.exit_code)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "Color output: auto|always|never")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Durable store backend: keyring|powershell (default: platform)")
	rootCmd.PersistentFlags().StringVar(&reportsDir, "reports-dir", "", "Write a JSON run report into this directory")

	// Flag aliases for agent ergonomics
	flagAlias(rootCmd.PersistentFlags(), "query", "jq")
	flagAlias(rootCmd.PersistentFlags(), "compact-json", "compact")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPersistCmd())
	rootCmd.AddCommand(newSpecsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newMCPCmd())

	return rootCmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
