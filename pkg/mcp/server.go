// Package mcp exposes an extracted documentation set over the Model
// Context Protocol so agent tooling can query component docs.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/BuddyNice/sveltedoc-parser/pkg/docset"
	"github.com/BuddyNice/sveltedoc-parser/pkg/mcplog"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server, exposing docset query tools plus
// on-demand extraction of raw component source.
type Server struct {
	mcpServer *server.MCPServer
	query     *docset.QueryService
	engine    *sveltedoc.Engine
	logger    *mcplog.Logger // nil disables call logging
}

// NewServer creates an MCP server backed by the given QueryService. The
// engine is optional; when present the extract_component tool is
// registered alongside the query tools.
func NewServer(qs *docset.QueryService, engine *sveltedoc.Engine, logger *mcplog.Logger) *Server {
	s := &Server{query: qs, engine: engine, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("sveltedoc", serverVersion, opts...)

	tools := []server.ServerTool{
		{Tool: listComponentsTool(), Handler: s.handleListComponents},
		{Tool: getComponentDocTool(), Handler: s.handleGetComponentDoc},
		{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
	}
	if engine != nil {
		tools = append(tools, server.ServerTool{
			Tool:    extractComponentTool(),
			Handler: s.handleExtractComponent,
		})
	}
	s.mcpServer.AddTools(tools...)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
