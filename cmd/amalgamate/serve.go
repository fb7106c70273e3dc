package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	amalgamatemcp "github.com/gorewood/amalgamate/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run amalgamate as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "amalgamate": {
        "command": "amalgamate",
        "args": ["serve"]
      }
    }
  }

Available tools: amalgamate, preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := amalgamatemcp.NewServer(buildVersion(), newInliner(cmd))
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
