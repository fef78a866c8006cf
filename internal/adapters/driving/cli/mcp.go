package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tailor/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can tailor
stored résumés.

Tools: tailor_resume, preview_chunks, ingest_resume.
Resources: tailor://resumes and tailor://resumes/{resumeId}.

By default the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead, for the MCP Inspector or remote access.

Examples:
  # Stdio mode (default)
  tailor mcp serve

  # HTTP mode
  tailor mcp serve --port 8081

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "tailor": {
        "command": "/path/to/tailor",
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
	if tailorService == nil {
		return errors.New("tailor service not configured")
	}

	ports := &mcp.Ports{
		Tailor:   tailorService,
		Ingest:   ingestService,
		Document: documentService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
