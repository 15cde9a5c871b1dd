package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aki/gitboss/internal/cli/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	env, err := createEnvironment(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(env.Config, nil)
	}

	data, err := yaml.Marshal(env.Config)
	if err != nil {
		return err
	}
	if !env.ConfigManager.IsInitialized() {
		ui.Info("No settings file at %s; showing defaults", env.ConfigManager.GetConfigPath())
	}
	return ui.GlobalFormatter.Output(string(data), nil)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configManager := newConfigManager(CreateBootstrapLogger())
	path := configManager.GetConfigPath()

	return ui.GlobalFormatter.Output(map[string]interface{}{
		"path":        path,
		"initialized": configManager.IsInitialized(),
	}, func() {
		ui.OutputLine("%s", path)
	})
}
