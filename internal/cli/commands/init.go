package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/repository"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the gitboss settings file",
	Long: `Create the settings file. With --base-dir the directory is scanned right away
and every repository found is tracked.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initBaseDir  string
	initMaxDepth int
	forceInit    bool
)

func init() {
	initCmd.Flags().StringVar(&initBaseDir, "base-dir", "", "Directory to scan for repositories")
	initCmd.Flags().IntVar(&initMaxDepth, "max-depth", -1, fmt.Sprintf("Levels below the base directory to scan (default %d)", config.DefaultMaxDepth))
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Rewrite an existing settings file, keeping tracked repositories")
}

type initOutput struct {
	ConfigPath    string   `json:"config_path"`
	BaseDirectory string   `json:"base_directory,omitempty"`
	MaxDepth      int      `json:"max_depth"`
	Repositories  []string `json:"repositories"`
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	configManager := newConfigManager(CreateBootstrapLogger())

	cfg := config.DefaultConfig()
	if configManager.IsInitialized() {
		if !forceInit {
			return fmt.Errorf("gitboss already initialized at %s. Use --force to reinitialize", configManager.GetConfigPath())
		}
		existing, err := configManager.Load(ctx)
		if err != nil {
			return err
		}
		cfg = existing
	}

	if initBaseDir != "" {
		base, err := repository.Canonicalize(initBaseDir)
		if err != nil {
			return fmt.Errorf("invalid base directory: %w", err)
		}
		if info, err := os.Stat(base.String()); err != nil || !info.IsDir() {
			ui.Warning("Base directory %s does not exist yet", base)
		}
		cfg.BaseDirectory = base.String()
	}
	if initMaxDepth >= 0 {
		cfg.SetDepth(initMaxDepth)
	}

	if err := configManager.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	repos := cfg.Repositories
	if cfg.BaseDirectory != "" {
		env, err := createEnvironment(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		set, err := env.Reconciler.Collect(ctx, cfg.BaseDirectory, cfg.Depth())
		if err != nil {
			return err
		}
		repos = set.Strings()
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(initOutput{
			ConfigPath:    configManager.GetConfigPath(),
			BaseDirectory: cfg.BaseDirectory,
			MaxDepth:      cfg.Depth(),
			Repositories:  repos,
		}, nil)
	}

	ui.Success("gitboss initialized at %s", configManager.GetConfigPath())
	if cfg.BaseDirectory != "" {
		ui.OutputLine("Tracking %s under %s", pluralize(len(repos), "repository"), cfg.BaseDirectory)
	}
	ui.OutputLine("\nRun 'gitboss list' to see tracked repositories")
	return nil
}
