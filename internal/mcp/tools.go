package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aki/gitboss/internal/core/repository"
	"github.com/aki/gitboss/internal/core/status"
)

// repositoryList is the payload of repo_list and the mutating tools
type repositoryList struct {
	Repositories []string `json:"repositories"`
	Count        int      `json:"count"`
	Changed      *bool    `json:"changed,omitempty"`
}

type statusEntry struct {
	Path   string           `json:"path"`
	Status *status.Snapshot `json:"status,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func newRepositoryList(set repository.Set) repositoryList {
	return repositoryList{Repositories: set.Strings(), Count: set.Len()}
}

func (s *Server) handleRepoList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var (
		set repository.Set
		err error
	)
	if rescan, ok := args["rescan"].(bool); ok && rescan {
		cfg, loadErr := s.configManager.Load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		set, err = s.reconciler.Collect(ctx, cfg.BaseDirectory, cfg.Depth())
	} else {
		set, err = s.reconciler.Load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	if set.Len() == 0 {
		return createEnhancedResult("repo_list", newRepositoryList(set), &ToolResultMetadata{
			Hint: NoRepositoriesError().Error(),
		})
	}
	return createEnhancedResult("repo_list", newRepositoryList(set), nil)
}

func (s *Server) handleRepoStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if path, ok := args["path"].(string); ok && path != "" {
		snap, err := s.aggregator.Status(ctx, path)
		if err != nil {
			if errors.Is(err, status.ErrNotARepository) {
				return nil, NotARepositoryError(path)
			}
			return nil, err
		}
		return createEnhancedResult("repo_status", snap, nil)
	}

	set, err := s.reconciler.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	results := s.aggregator.StatusAll(ctx, set.Strings())
	entries := make([]statusEntry, 0, len(results))
	for _, r := range results {
		entry := statusEntry{Path: r.Path, Status: r.Snapshot}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		entries = append(entries, entry)
	}
	return createEnhancedResult("repo_status", entries, nil)
}

func (s *Server) handleRepoAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := requiredPath(request)
	if err != nil {
		return nil, err
	}

	set, err := s.reconciler.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	before := set.Len()
	set, err = s.reconciler.Add(ctx, set, path)
	if err != nil {
		if errors.Is(err, repository.ErrMalformedPath) {
			return nil, InvalidParameterError("path", "a non-empty filesystem path")
		}
		return nil, fmt.Errorf("failed to add repository: %w", err)
	}

	result := newRepositoryList(set)
	changed := set.Len() != before
	result.Changed = &changed
	return createEnhancedResult("repo_add", result, nil)
}

func (s *Server) handleRepoRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := requiredPath(request)
	if err != nil {
		return nil, err
	}

	set, err := s.reconciler.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	before := set.Len()
	set, err = s.reconciler.Remove(ctx, set, path)
	if err != nil {
		if errors.Is(err, repository.ErrMalformedPath) {
			return nil, InvalidParameterError("path", "a non-empty filesystem path")
		}
		return nil, fmt.Errorf("failed to remove repository: %w", err)
	}
	if set.Len() == before {
		return nil, RepositoryNotTrackedError(path)
	}

	result := newRepositoryList(set)
	changed := true
	result.Changed = &changed
	return createEnhancedResult("repo_remove", result, nil)
}

func (s *Server) handleRepoRescan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	cfg, err := s.configManager.Load(ctx)
	if err != nil {
		return nil, err
	}

	base := cfg.BaseDirectory
	if b, ok := args["base_dir"].(string); ok && b != "" {
		base = b
	}
	if base == "" {
		return nil, NoBaseDirectoryError()
	}

	depth := cfg.Depth()
	if d, ok := args["max_depth"].(float64); ok {
		if d < 0 {
			return nil, InvalidParameterError("max_depth", "a number >= 0")
		}
		depth = int(d)
	}

	set, err := s.reconciler.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	before := set.Len()
	set, err = s.reconciler.Rescan(ctx, set, base, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to rescan: %w", err)
	}

	result := newRepositoryList(set)
	changed := set.Len() != before
	result.Changed = &changed
	return createEnhancedResult("repo_rescan", result, nil)
}

func requiredPath(request mcp.CallToolRequest) (string, error) {
	path, ok := request.GetArguments()["path"].(string)
	if !ok || path == "" {
		return "", InvalidParameterError("path", "a repository path")
	}
	return path, nil
}
