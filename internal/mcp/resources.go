package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const repositoriesURI = "gitboss://repositories"

// registerResources registers all MCP resources
func (s *Server) registerResources() {
	repositoryListResource := mcp.NewResource(
		repositoriesURI,
		"Tracked Repositories",
		mcp.WithResourceDescription("Repositories gitboss tracks, in display order"),
		mcp.WithMIMEType("application/json"),
	)
	s.mcpServer.AddResource(repositoryListResource, s.handleRepositoryListResource)
}

func (s *Server) handleRepositoryListResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	set, err := s.reconciler.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	jsonData, err := json.MarshalIndent(newRepositoryList(set), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal repository list: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
