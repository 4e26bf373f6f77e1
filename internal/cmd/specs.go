package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/envkeep/internal/contract"
)

func newSpecsCmd() *cobra.Command {
	var showSchema bool

	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Show the effective token catalog",
		Long: `List the tokens envkeep manages, after applying any catalog override
from the config file. With --schema, print the JSON schema accepted by
'envkeep run' parameters instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := globalOptionsFromContext(ctx)

			if showSchema {
				var schema any
				if err := json.Unmarshal(contract.ParametersSchemaJSON(), &schema); err != nil {
					return fmt.Errorf("failed to decode parameters schema: %w", err)
				}
				return printerForCommand(cmd, opts).Print(schema)
			}

			return printerForCommand(cmd, opts).Print(map[string]any{
				"tokens": effectiveSpecs(ctx),
			})
		},
	}

	cmd.Flags().BoolVar(&showSchema, "schema", false, "Print the request parameters JSON schema")
	return cmd
}
