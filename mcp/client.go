// Package mcp connects to Model Context Protocol servers and exposes their
// tools to the local registry. Both stdio-spawned and SSE servers are
// supported; the handshake and tool calls go through mark3labs/mcp-go.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
)

const (
	clientName    = "weather-agent"
	clientVersion = "0.1.0"

	defaultInitTimeout = 30 * time.Second
)

// ToolInfo describes a tool advertised by a connected MCP server.
type ToolInfo struct {
	Name        string
	Description string
	Schema      map[string]interface{}
}

// ClientLike abstracts over MCP client transports so callers and tests
// do not depend on a live server process.
type ClientLike interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	ExecuteTool(ctx context.Context, name string, args string) (string, error)
	Close() error
}

// Client wraps an mcp-go client session with an already-completed
// initialize handshake.
type Client struct {
	inner      *mcpclient.Client
	serverName string
	serverVer  string
}

// ConnectStdio spawns command with the given args as an MCP server child
// process and performs the initialize handshake. env entries are KEY=VALUE
// pairs appended to the child's environment.
func ConnectStdio(ctx context.Context, command string, env []string, args ...string) (*Client, error) {
	inner, err := mcpclient.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("spawn mcp server: %w", err)
	}
	return initialize(ctx, inner)
}

// ConnectSSE dials an MCP server over SSE at the given URL and performs
// the initialize handshake.
func ConnectSSE(ctx context.Context, url string) (*Client, error) {
	inner, err := mcpclient.NewSSEMCPClient(url)
	if err != nil {
		return nil, fmt.Errorf("create sse client: %w", err)
	}
	if err := inner.Start(ctx); err != nil {
		return nil, fmt.Errorf("start sse client: %w", err)
	}
	return initialize(ctx, inner)
}

func initialize(ctx context.Context, inner *mcpclient.Client) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultInitTimeout)
	defer cancel()

	initReq := mcpproto.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpproto.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	initResult, err := inner.Initialize(ctx, initReq)
	if err != nil {
		inner.Close()
		return nil, fmt.Errorf("initialize failed: %w", err)
	}

	return &Client{
		inner:      inner,
		serverName: initResult.ServerInfo.Name,
		serverVer:  initResult.ServerInfo.Version,
	}, nil
}

// ServerInfo returns the name and version the server reported during
// the initialize handshake.
func (c *Client) ServerInfo() (name, version string) {
	return c.serverName, c.serverVer
}

// ListTools fetches tool metadata from the connected server.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	result, err := c.inner.ListTools(ctx, mcpproto.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list failed: %w", err)
	}

	infos := make([]ToolInfo, 0, len(result.Tools))
	for i := range result.Tools {
		t := &result.Tools[i]
		schema, err := schemaToMap(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: decode input schema: %w", t.Name, err)
		}
		infos = append(infos, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			Schema:      schema,
		})
	}
	return infos, nil
}

// ExecuteTool calls the named tool. args is a JSON object string as produced
// by the model; an empty string means no arguments. A result flagged as an
// error by the server is returned as a Go error carrying the server's text.
func (c *Client) ExecuteTool(ctx context.Context, name string, args string) (string, error) {
	arguments := map[string]any{}
	if strings.TrimSpace(args) != "" {
		if err := json.Unmarshal([]byte(args), &arguments); err != nil {
			return "", fmt.Errorf("tool %s: invalid arguments: %w", name, err)
		}
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	result, err := c.inner.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tools/call %s failed: %w", name, err)
	}

	text := flattenContent(result.Content)
	if result.IsError {
		return "", fmt.Errorf("tool %s reported error: %s", name, text)
	}
	return text, nil
}

// Close shuts down the session. For stdio transports this terminates the
// child server process.
func (c *Client) Close() error {
	return c.inner.Close()
}

func schemaToMap(schema mcpproto.ToolInputSchema) (map[string]interface{}, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// flattenContent joins the text parts of a tool result. Non-text parts
// are skipped.
func flattenContent(content []mcpproto.Content) string {
	var parts []string
	for _, item := range content {
		if tc, ok := mcpproto.AsTextContent(item); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var _ ClientLike = (*Client)(nil)
