package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/stepcast/internal/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the recorder as tools",
	Long: `Start a Model Context Protocol (MCP) server with the tools start_recording,
stop_recording, capture, drain_events and process_step. Global input hooks
run in the background so start_recording records real clicks and typing.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  stepcast mcp
  stepcast mcp --transport streamable-http --port 8080`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", server.TransportStdio, "Transport: stdio, streamable-http")
	mcpCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runMCP(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkPermissions()
	rec, cleanup, err := newRecorder(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	runHooks(ctx, rec)

	srv := server.New(rec, logger.With("component", "mcp"))
	if err := srv.Serve(ctx, server.Config{Transport: transport, Addr: fmt.Sprintf(":%d", port)}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
