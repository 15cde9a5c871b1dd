package commands

import (
	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
	"github.com/aki/gitboss/internal/core/repository"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked repositories",
	Long: `List tracked repositories in display order. When a base directory is
configured it is scanned first and new repositories are added.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listNoScan bool

func init() {
	listCmd.Flags().BoolVar(&listNoScan, "no-scan", false, "Only show the stored list")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	var set repository.Set
	if listNoScan {
		set, err = env.Reconciler.Load(ctx)
	} else {
		set, err = env.Reconciler.Collect(ctx, env.Config.BaseDirectory, env.Config.Depth())
	}
	if err != nil {
		return err
	}

	paths := set.Strings()
	return ui.GlobalFormatter.Output(repositoryListOutput{Repositories: paths, Count: len(paths)}, func() {
		ui.PrintRepositoryList(paths)
	})
}
