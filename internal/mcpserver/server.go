// Package mcpserver exposes the persona catalog and bot lifecycle as MCP
// tools, so agents can manage meeting bots over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
)

// Server is the MCP server for the meeting bot console.
type Server struct {
	mcp      *server.MCPServer
	handlers *Handlers
}

// New creates and configures the MCP server.
func New(personas *store.Store, baasClient *baas.Client, reg *registry.Registry, webhookURL, version string) *Server {
	handlers := NewHandlers(personas, baasClient, reg, webhookURL)

	mcpServer := server.NewMCPServer(
		"meetbot",
		version,
		server.WithToolCapabilities(true),
	)

	tools := ToolDefs()
	mcpServer.AddTool(tools[0], handlers.HandleListPersonas)
	mcpServer.AddTool(tools[1], handlers.HandleGetPersona)
	mcpServer.AddTool(tools[2], handlers.HandleValidatePersona)
	mcpServer.AddTool(tools[3], handlers.HandleLaunchBot)
	mcpServer.AddTool(tools[4], handlers.HandleLeaveBot)

	return &Server{
		mcp:      mcpServer,
		handlers: handlers,
	}
}

// ServeStdio runs the MCP server over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}
