package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/hawkeye-rf/emflow/internal/cli"
	"github.com/hawkeye-rf/emflow/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes project inspection and run history to AI agents as MCP tools
(inspect_project, list_runs, get_run) and resources (emflow://runs).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		e, err := newEnv(ctx, "")
		if err != nil {
			return err
		}
		defer e.Close()

		srv := mcp.NewServer(e.stack.Engine, e.logger)
		switch transport {
		case "stdio":
			// Keep stdout clean for JSON-RPC.
			log.SetOutput(os.Stderr)
			e.logger.Info("starting emflow MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			e.logger.Info("starting emflow MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			e.logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
