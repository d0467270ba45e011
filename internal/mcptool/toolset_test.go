package mcptool

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToolset(t *testing.T) Toolset {
	t.Helper()

	s := server.NewMCPServer("test", "0.0.0")
	s.AddTool(mcp.NewTool("echo",
		mcp.WithDescription("Echo the input back."),
		mcp.WithString("text", mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	})
	s.AddTool(mcp.NewTool("always_fails",
		mcp.WithDescription("Return a tool error."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("nope"), nil
	})

	ts, err := NewInProcess(context.Background(), "test", s)
	require.NoError(t, err)
	t.Cleanup(func() { ts.Close() })
	return ts
}

func TestToolset_Call(t *testing.T) {
	ts := testToolset(t)

	out, err := ts.Call(context.Background(), "echo", map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestToolset_Call_ToolError(t *testing.T) {
	ts := testToolset(t)

	_, err := ts.Call(context.Background(), "always_fails", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, err.Error(), "test.always_fails")
}

func TestToolset_Call_MissingArgument(t *testing.T) {
	ts := testToolset(t)

	_, err := ts.Call(context.Background(), "echo", nil)
	require.Error(t, err)
}

func TestToolset_Tools(t *testing.T) {
	ts := testToolset(t)

	names, err := ts.Tools(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"echo", "always_fails"}, names)
}
