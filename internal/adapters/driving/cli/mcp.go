package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/phenomap-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  phenomap mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  phenomap mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "phenomap": {
        "command": "/path/to/phenomap",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := ensurePipelineService(nil); err != nil {
		return err
	}
	if err := ensureLookupService(); err != nil {
		return err
	}

	// Long-running server: pick up prompt edits without a restart.
	if ps, ok := promptStore.(*file.PromptStore); ok {
		stop, err := ps.Watch()
		if err != nil {
			return fmt.Errorf("failed to watch prompt directory: %w", err)
		}
		defer stop() //nolint:errcheck // Shutdown path
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	indexPath := settings.IndexPath
	if indexPath == "" {
		indexPath, err = defaultIndexPath()
		if err != nil {
			return err
		}
	}

	ports := &mcp.Ports{
		Pipeline: pipelineService,
		Lookup:   lookupService,
		Status: mcp.StatusInfo{
			DatabasePath:    annotationStorePath,
			IndexPath:       indexPath,
			IndexTerms:      indexTerms,
			IndexDimensions: indexDimensions,
			LLMModel:        llmModelName,
			EmbeddingModel:  embeddingModelName,
		},
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
