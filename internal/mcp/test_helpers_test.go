package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/aki/gitboss/internal/app"
	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/git"
)

// setupTestServer creates a server over a fresh settings document and the
// given git capability
func setupTestServer(t *testing.T, capability git.Capability) (*Server, *config.Manager) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), config.ConfigFile)
	container, err := app.NewContainer(context.Background(), configPath, app.WithCapability(capability))
	require.NoError(t, err)

	s, err := NewServer(container, "test")
	require.NoError(t, err)
	return s, container.ConfigManager
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// decodeResult unmarshals the "result" field of an enhanced tool result
func decodeResult(t *testing.T, result *mcp.CallToolResult, out interface{}) {
	t.Helper()

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var envelope struct {
		Result   json.RawMessage    `json:"result"`
		Metadata ToolResultMetadata `json:"_metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Result, out))
}
