// Package mcptool wraps MCP clients behind a small Toolset interface so the
// analysis crew can call pricing and comparison tools without caring whether
// the server runs in-process or as a spawned stdio binary.
package mcptool

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/costwise/costwise/internal/version"
)

// Toolset is a connected MCP server offering a set of callable tools.
type Toolset interface {
	// Call invokes a tool and returns its text payload. A tool-level error
	// (result.IsError) is returned as a Go error carrying the tool's message.
	Call(ctx context.Context, tool string, args map[string]any) (string, error)

	// Tools lists the tool names the server advertises.
	Tools(ctx context.Context) ([]string, error)

	Close() error
}

type mcpToolset struct {
	name string
	c    *client.Client
}

// NewStdio spawns an MCP server binary and connects over stdio.
func NewStdio(ctx context.Context, name, command string, env []string, args ...string) (Toolset, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}
	ts := &mcpToolset{name: name, c: c}
	if err := ts.initialize(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return ts, nil
}

// NewInProcess connects to an MCP server living in the same process. Used by
// the serve path when no external binaries are configured, and by tests.
func NewInProcess(ctx context.Context, name string, srv *server.MCPServer) (Toolset, error) {
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("connecting %s: %w", name, err)
	}
	ts := &mcpToolset{name: name, c: c}
	if err := ts.initialize(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return ts, nil
}

func (t *mcpToolset) initialize(ctx context.Context) error {
	if err := t.c.Start(ctx); err != nil {
		return fmt.Errorf("starting %s client: %w", t.name, err)
	}
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "costwise", Version: version.Version}
	if _, err := t.c.Initialize(ctx, req); err != nil {
		return fmt.Errorf("initializing %s: %w", t.name, err)
	}
	return nil
}

func (t *mcpToolset) Call(ctx context.Context, tool string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := t.c.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", t.name, tool, err)
	}
	text := textContent(result)
	if result.IsError {
		return "", fmt.Errorf("%s.%s: %s", t.name, tool, text)
	}
	return text, nil
}

func (t *mcpToolset) Tools(ctx context.Context) ([]string, error) {
	result, err := t.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("listing %s tools: %w", t.name, err)
	}
	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	return names, nil
}

func (t *mcpToolset) Close() error {
	return t.c.Close()
}

func textContent(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
