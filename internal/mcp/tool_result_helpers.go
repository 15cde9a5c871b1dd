package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolResultMetadata rides along with every tool result under "_metadata"
type ToolResultMetadata struct {
	ToolUsed           string              `json:"tool_used"`
	Hint               string              `json:"hint,omitempty"`
	SuggestedNextTools []map[string]string `json:"suggested_next_tools,omitempty"`
}

type resultEnvelope struct {
	Result   any                 `json:"result"`
	Metadata *ToolResultMetadata `json:"_metadata,omitempty"`
}

// createEnhancedResult renders content and its metadata as one indented JSON
// text block. A nil metadata gets the tool name and follow-up suggestions only.
func createEnhancedResult(toolName string, content any, metadata *ToolResultMetadata) (*mcp.CallToolResult, error) {
	meta := ToolResultMetadata{}
	if metadata != nil {
		meta = *metadata
	}
	meta.ToolUsed = toolName
	meta.SuggestedNextTools = GetNextToolSuggestions(toolName)

	data, err := json.MarshalIndent(resultEnvelope{Result: content, Metadata: &meta}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s result: %w", toolName, err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
