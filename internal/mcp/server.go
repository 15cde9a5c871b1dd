// Package mcp exposes gitboss repository tracking over the Model Context
// Protocol on stdio.
package mcp

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"strings"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aki/gitboss/internal/app"
	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/core/reconcile"
	"github.com/aki/gitboss/internal/core/status"
)

const serverName = "gitboss"

// Server implements the MCP server using mcp-go
type Server struct {
	mcpServer     *server.MCPServer
	configManager *config.Manager
	reconciler    *reconcile.Reconciler
	aggregator    *status.Aggregator
	log           logger.Logger
}

// NewServer creates a server over the managers in container
func NewServer(container *app.Container, version string) (*Server, error) {
	if container == nil || container.ConfigManager == nil {
		return nil, fmt.Errorf("application container is required")
	}

	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithLogging(),
		server.WithResourceCapabilities(false, false),
	)

	s := &Server{
		mcpServer:     mcpServer,
		configManager: container.ConfigManager,
		reconciler:    container.Reconciler,
		aggregator:    container.Aggregator,
		log:           container.Logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// registerTools registers all gitboss tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("repo_list",
		mcp.WithDescription(GetEnhancedDescription("repo_list")),
		mcp.WithBoolean("rescan",
			mcp.Description("Scan the configured base directory before listing (optional)"),
		),
	), s.handleRepoList)

	s.mcpServer.AddTool(mcp.NewTool("repo_status",
		mcp.WithDescription(GetEnhancedDescription("repo_status")),
		mcp.WithString("path",
			mcp.Description("Repository path. Omit to report every tracked repository"),
		),
	), s.handleRepoStatus)

	s.mcpServer.AddTool(mcp.NewTool("repo_add",
		mcp.WithDescription(GetEnhancedDescription("repo_add")),
		mcp.WithString("path",
			mcp.Description("Repository path"),
			mcp.Required(),
		),
	), s.handleRepoAdd)

	s.mcpServer.AddTool(mcp.NewTool("repo_remove",
		mcp.WithDescription(GetEnhancedDescription("repo_remove")),
		mcp.WithString("path",
			mcp.Description("Repository path"),
			mcp.Required(),
		),
	), s.handleRepoRemove)

	s.mcpServer.AddTool(mcp.NewTool("repo_rescan",
		mcp.WithDescription(GetEnhancedDescription("repo_rescan")),
		mcp.WithString("base_dir",
			mcp.Description("Directory to scan (optional, defaults to base_directory from config)"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Levels below base_dir to visit (optional, defaults to max_depth from config)"),
			mcp.Min(0),
		),
	), s.handleRepoRescan)
}

// Start serves requests on stdin/stdout until the input is closed or ctx is
// cancelled
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks the stdio transport over in and out. Cancelling ctx stops it.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(stdlog.New(transportLog{s.log}, "", 0))

	err := stdio.Listen(ctx, in, out)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// transportLog forwards the stdio transport's error log to the gitboss logger
type transportLog struct {
	log logger.Logger
}

func (w transportLog) Write(p []byte) (int, error) {
	w.log.Warn("mcp transport error", "message", strings.TrimSpace(string(p)))
	return len(p), nil
}
