// Package mcp exposes the query service and history store as Model Context
// Protocol tools, so agent hosts can submit financial questions and browse
// past answers over a standard transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/darshil0/FinAgent-Pro/internal/history"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

// Server wraps the MCP SDK server and the query/history services.
type Server struct {
	mcpServer *mcp.Server
	service   *query.Service
	store     *history.Store
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Query   *query.Service
	History *history.Store
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Query == nil {
		return nil, fmt.Errorf("query service is required")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("history store is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		service:   cfg.Query,
		store:     cfg.History,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. This is a blocking call
// that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	if err := s.registerFinanceQuery(); err != nil {
		return fmt.Errorf("failed to register financeQuery: %w", err)
	}
	if err := s.registerSearchHistory(); err != nil {
		return fmt.Errorf("failed to register searchHistory: %w", err)
	}
	return nil
}

// FinanceQueryInput defines the input schema for the financeQuery tool.
type FinanceQueryInput struct {
	Query string `json:"query" jsonschema:"The financial question to answer (3-2000 characters)"`
}

func (s *Server) registerFinanceQuery() error {
	inputSchema, err := jsonschema.For[FinanceQueryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        "financeQuery",
		Description: "Ask a financial question. Returns a markdown answer, optionally with structured chart data, wrapped in a response envelope with coverage flags.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in FinanceQueryInput) (*mcp.CallToolResult, any, error) {
		env := s.service.Submit(ctx, in.Query)

		if env.Success {
			item := history.Item{
				ID:        env.RequestID,
				Query:     in.Query,
				Response:  env.Data,
				Timestamp: env.Timestamp,
				Chart:     env.Chart,
				RequestID: env.RequestID,
			}
			_ = s.store.Append(item)
		}

		encoded, err := json.Marshal(env)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding envelope: %w", err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
			IsError: !env.Success,
		}, nil, nil
	})

	return nil
}

// SearchHistoryInput defines the input schema for the searchHistory tool.
type SearchHistoryInput struct {
	Substring string `json:"substring" jsonschema:"Case-insensitive substring to match against past queries; empty returns everything"`
}

func (s *Server) registerSearchHistory() error {
	inputSchema, err := jsonschema.For[SearchHistoryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        "searchHistory",
		Description: "Search past financial queries and answers. Matches the query text case-insensitively; an empty substring returns the full history, newest first.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(_ context.Context, req *mcp.CallToolRequest, in SearchHistoryInput) (*mcp.CallToolResult, any, error) {
		items := s.store.Search(in.Substring)
		if items == nil {
			items = []history.Item{}
		}

		encoded, err := json.Marshal(items)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding history items: %w", err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
		}, nil, nil
	})

	return nil
}
