// Package mcp exposes the indexer over the Model Context Protocol so
// editors and agents can submit index requests through stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/JamieCunliffe/rtags/internal/indexer"
)

const (
	// ServerName is the MCP server name.
	ServerName = "rtags"
	// ServerVersion is the current server version.
	ServerVersion = "0.1.0"
)

// Server wraps the MCP server with the indexer it drives.
type Server struct {
	mcp     *server.MCPServer
	indexer *indexer.Indexer
}

// NewServer creates an MCP server submitting requests to ix.
func NewServer(ix *indexer.Indexer) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		indexer: ix,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdio and blocks until the client hangs up.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(indexTool(), s.handleIndex)
	s.mcp.AddTool(reindexTool(), s.handleReindex)
	s.mcp.AddTool(statusTool(), s.handleStatus)
}
