// Package commands provides CLI command implementations for gitboss.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
)

// Global flags
var (
	flagConfigPath string
	flagFormat     string
)

var rootCmd = &cobra.Command{
	Use:   "gitboss",
	Short: "Track local git repositories and their working-tree status",
	Long: `gitboss keeps a list of the git repositories on this machine. It scans a base
directory for working trees, lets you add and remove entries by hand, and reports
whether each one has uncommitted changes and which branch is checked out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := ui.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		return ui.SetGlobalFormatter(format)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Settings file (default $GITBOSS_CONFIG or ~/.config/gitboss/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "pretty", "Output format (pretty, json)")
	RegisterLoggerFlags(rootCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_ = ui.GlobalFormatter.OutputError(err)
	}
	return err
}

func errNoBaseDirectory() error {
	return fmt.Errorf("no base directory configured. Run 'gitboss init --base-dir DIR' or pass --base-dir")
}
