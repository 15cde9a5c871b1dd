package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve repository tools over MCP",
	Long: `Serve the tracked repository set over the Model Context Protocol on stdio.

Tools: repo_list, repo_status, repo_add, repo_remove, repo_rescan.
Resource: gitboss://repositories.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	server, err := mcp.NewServer(env.Container, Version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// stdout belongs to the protocol, so progress only goes to the logger
	log := env.Logger.With("transport", "stdio", "config", env.ConfigManager.GetConfigPath())
	log.Info("mcp server starting")

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("mcp server failed", "error", err)
		return fmt.Errorf("mcp server: %w", err)
	}

	log.Info("mcp server stopped")
	return nil
}
