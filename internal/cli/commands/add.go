package commands

import (
	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
	"github.com/aki/gitboss/internal/core/discovery"
	"github.com/aki/gitboss/internal/core/repository"
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Track a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a repository",
	Long:    "Stop tracking a repository. Nothing on disk is touched.",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

type changeOutput struct {
	Path         string   `json:"path"`
	Changed      bool     `json:"changed"`
	Repositories []string `json:"repositories"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	path, err := repository.Canonicalize(args[0])
	if err != nil {
		return err
	}

	reconciler := env.Reconciler
	set, err := reconciler.Load(ctx)
	if err != nil {
		return err
	}

	before := set.Len()
	set, err = reconciler.Add(ctx, set, path.String())
	if err != nil {
		return err
	}
	changed := set.Len() != before

	return ui.GlobalFormatter.Output(changeOutput{Path: path.String(), Changed: changed, Repositories: set.Strings()}, func() {
		if !discovery.IsRepository(path.String()) {
			ui.Warning("%s is not a git working tree", path)
		}
		if changed {
			ui.Success("Tracking %s", path)
		} else {
			ui.Info("%s is already tracked", path)
		}
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	path, err := repository.Canonicalize(args[0])
	if err != nil {
		return err
	}

	reconciler := env.Reconciler
	set, err := reconciler.Load(ctx)
	if err != nil {
		return err
	}

	before := set.Len()
	set, err = reconciler.Remove(ctx, set, path.String())
	if err != nil {
		return err
	}
	changed := set.Len() != before

	return ui.GlobalFormatter.Output(changeOutput{Path: path.String(), Changed: changed, Repositories: set.Strings()}, func() {
		if changed {
			ui.Success("Stopped tracking %s", path)
		} else {
			ui.Info("%s was not tracked", path)
		}
	})
}
