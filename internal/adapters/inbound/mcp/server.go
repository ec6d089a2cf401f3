package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewLazarusMCPServer creates a new MCP server with all Lazarus tools
// registered. The projectPath is the root directory of the repository to
// resurrect.
func NewLazarusMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"lazarus",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)

	return s
}
