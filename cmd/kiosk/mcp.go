package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/kiosk/internal/cli"
	"github.com/aretw0/kiosk/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the Kiosk engine as an MCP Server.
This allows AI agents to inspect the catalog and rearrange boards as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		_, rt, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Engine, mcp.WithLogger(rt.Logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			rt.Logger.Info("Starting Kiosk MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			rt.Logger.Info("Starting Kiosk MCP Server (SSE)", "port", port)

			ctx := cli.NewSignalContext(context.Background())
			defer ctx.Cancel()
			defer ctx.LogStop(rt.Logger)

			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			rt.Logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
