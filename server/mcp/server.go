// Package mcp exposes a local tool registry as a Model Context Protocol
// server over stdio or SSE. Anything registered in the registry becomes a
// callable MCP tool with its JSON schema advertised verbatim.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/KamdynS/weather-agent/tools"
)

// Config holds MCP server identity and SSE settings.
type Config struct {
	Name    string
	Version string

	// BaseURL is advertised to SSE clients for the message endpoint.
	// Optional; mcp-go derives it from the request when empty.
	BaseURL string
}

// Server bridges a tools.Registry onto the MCP wire protocol.
type Server struct {
	mcpServer *mcpserver.MCPServer
	sse       *mcpserver.SSEServer
	config    Config
}

// NewServer builds a server advertising every tool in the registry.
func NewServer(reg tools.Registry, config Config) (*Server, error) {
	if config.Name == "" {
		config.Name = "weather-agent"
	}
	if config.Version == "" {
		config.Version = "0.1.0"
	}

	srv := mcpserver.NewMCPServer(
		config.Name,
		config.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	s := &Server{mcpServer: srv, config: config}
	if err := s.registerTools(reg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) registerTools(reg tools.Registry) error {
	for _, name := range reg.List() {
		tool, ok := reg.Get(name)
		if !ok {
			continue
		}
		schema, err := json.Marshal(tool.Schema())
		if err != nil {
			return fmt.Errorf("tool %s: marshal schema: %w", name, err)
		}
		s.mcpServer.AddTool(
			mcpproto.NewToolWithRawSchema(tool.Name(), tool.Description(), schema),
			makeHandler(reg, tool.Name()),
		)
	}
	return nil
}

// makeHandler forwards an MCP tool call into the registry. Tool failures
// become protocol-level error results so the calling model can react to
// them; only transport faults surface as Go errors.
func makeHandler(reg tools.Registry, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcpproto.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		result, err := reg.Execute(ctx, name, string(args))
		if err != nil {
			return mcpproto.NewToolResultError(err.Error()), nil
		}
		return mcpproto.NewToolResultText(result), nil
	}
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
// Nothing but protocol frames may be written to stdout; all logging in the
// process must go to stderr.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// ServeSSE listens on addr, serving the /sse and /message endpoints.
// It blocks until Shutdown is called or the listener fails.
func (s *Server) ServeSSE(addr string) error {
	var opts []mcpserver.SSEOption
	if s.config.BaseURL != "" {
		opts = append(opts, mcpserver.WithBaseURL(s.config.BaseURL))
	}
	s.sse = mcpserver.NewSSEServer(s.mcpServer, opts...)
	slog.Info("mcp sse server listening", "addr", addr)
	return s.sse.Start(addr)
}

// Shutdown stops the SSE listener if one is running.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.sse == nil {
		return nil
	}
	return s.sse.Shutdown(ctx)
}

// MCPServer exposes the underlying protocol server, mainly for in-process
// test clients.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}
