package server

import (
	"log/slog"

	plugins "github.com/alex-galey/coach-mcp/internal/server-plugin/application"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

// NewMCPServerInstance creates a new MCP server instance.
func NewMCPServerInstance(logger *slog.Logger) *server.MCPServer {
	logger.Debug("Creating MCP server instance")
	version := "dev"
	mcpServer := server.NewMCPServer(
		"Coach MCP Server",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	)
	logger.Debug("MCP server instance created successfully")
	return mcpServer
}

var Module = fx.Module("server",
	fx.Provide(
		NewMCPServerInstance,
		plugins.NewServerPluginRegistry,
		func(registry *plugins.ServerPluginRegistry, mcpServer *server.MCPServer, logger *slog.Logger) *MCPAdapter {
			return NewMCPAdapter(registry, mcpServer, logger)
		},
	),
	fx.Invoke(registerServerHooks),
)
