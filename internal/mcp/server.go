package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/docrag/internal/pipeline"
	"github.com/bull/docrag/internal/storage"
)

// Server wraps the MCP server with its pipeline dependencies.
type Server struct {
	server   *mcp.Server
	pipeline *pipeline.Pipeline
	storage  *storage.QdrantStorage
}

// Config holds server dependencies.
type Config struct {
	Pipeline   *pipeline.Pipeline
	Storage    *storage.QdrantStorage
	Collection string
}

// NewServer creates a configured MCP server with all tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "docrag-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_docs",
		Description: "Answer a question from the indexed documents using retrieval-augmented generation. Returns the answer with source citations.",
	}, makeAskHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Retrieve the most relevant document chunks for a query without generating an answer. Combines semantic and keyword matching.",
	}, makeSearchHandler(cfg.Pipeline))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_index_status",
		Description: "Report how many chunks the index holds and its estimated storage size.",
	}, makeStatusHandler(cfg.Pipeline, cfg.Collection))

	return &Server{
		server:   server,
		pipeline: cfg.Pipeline,
		storage:  cfg.Storage,
	}
}

// Run starts the server with stdio transport and blocks until the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance for transport
// handlers that need to wrap it.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
