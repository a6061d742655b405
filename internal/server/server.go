// Package server exposes the graph's query surface as MCP tools over stdio.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codegraph/internal/graph"
)

type Server struct {
	g         *graph.Graph
	mcpServer *mcp.Server
}

// New wraps a built graph in an MCP server with the query tools registered.
func New(name, version string, g *graph.Graph) *Server {
	s := &Server{
		g:         g,
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
