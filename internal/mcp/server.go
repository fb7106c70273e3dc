// Package mcp provides a Model Context Protocol server for amalgamate.
// It exposes header amalgamation as MCP tools that any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/amalgamate/internal/amalgam"
)

// NewServer creates an MCP server with all amalgamate tools registered.
func NewServer(version string, inliner *amalgam.Inliner) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "amalgamate",
		Version: version,
	}, nil)
	registerTools(server, inliner)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for tools that only read files.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for tools that replace the output file.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, inliner *amalgam.Inliner) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "amalgamate",
		Description: "Combine a header template and the local headers it includes into one file. " +
			"Quoted includes are inlined once, angle-bracket includes are collected into ##SYS_INCLUDES##, " +
			"and ##NAME## becomes the upper-cased output file name. Writes the output file.",
		Annotations: writeAnnotations(),
	}, handleAmalgamate(inliner))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview",
		Description: "Assemble the same output as amalgamate without writing it. Returns the text, guard name, inlined headers and system includes.",
		Annotations: readOnlyAnnotations(),
	}, handlePreview(inliner))
}
