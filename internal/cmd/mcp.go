package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/envkeep/internal/contract"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose token persistence over the MCP protocol",
		Long: `Run envkeep as a Model Context Protocol (MCP) server so agents can
persist tokens through a tool call instead of shelling out.

The server speaks MCP over stdio and exposes a single tool whose input
schema matches the 'envkeep run' request parameters. Tool responses are
the same validated bodies 'envkeep run' prints; secret values never
appear in them.`,
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}
			runner := contract.NewRunner(eng)

			srv := server.NewMCPServer("envkeep", cmd.Root().Version,
				server.WithToolCapabilities(false),
			)
			srv.AddTool(persistTokensTool(), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				body := runner.Run(map[string]any{
					"command":    contract.Command,
					"parameters": req.GetArguments(),
				})
				writeRunReport(ctx, body)

				raw, err := json.Marshal(body)
				if err != nil {
					return nil, fmt.Errorf("failed to encode response: %w", err)
				}
				if contract.ExitCodeOf(body) == contract.ExitInvalidRequest {
					return mcp.NewToolResultError(string(raw)), nil
				}
				return mcp.NewToolResultText(string(raw)), nil
			})

			return server.ServeStdio(srv)
		},
	}
}

func persistTokensTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"persist_tokens",
		"Persist named tokens into the durable, user-scoped environment store. "+
			"Accepts the same parameters as the envkeep run contract; responses "+
			"redact secret values and carry per-token outcomes.",
		json.RawMessage(contract.ParametersSchemaJSON()),
	)
}
