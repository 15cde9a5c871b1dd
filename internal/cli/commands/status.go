package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show working-tree status",
	Long: `Show whether a repository has uncommitted changes, its local branches, the
checked out branch and the changed paths. Without a path every tracked
repository is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

type statusItem struct {
	Path   string      `json:"path"`
	Status interface{} `json:"status,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	aggregator := env.Aggregator

	if len(args) == 1 {
		snap, err := aggregator.Status(ctx, args[0])
		if err != nil {
			return err
		}
		return ui.GlobalFormatter.Output(snap, func() { ui.PrintStatus(snap) })
	}

	set, err := env.Reconciler.Load(ctx)
	if err != nil {
		return err
	}

	results := aggregator.StatusAll(ctx, set.Strings())
	items := make([]statusItem, 0, len(results))
	invalid := 0
	for _, r := range results {
		item := statusItem{Path: r.Path}
		if r.Err != nil {
			invalid++
			item.Error = r.Err.Error()
		} else {
			item.Status = r.Snapshot
		}
		items = append(items, item)
	}

	if err := ui.GlobalFormatter.Output(items, func() { ui.PrintStatusTable(results) }); err != nil {
		return err
	}
	if invalid > 0 && !ui.GlobalFormatter.IsJSON() {
		ui.Warning("%s no longer a git working tree. Use 'gitboss remove <path>' to stop tracking", describeInvalid(invalid))
	}
	return nil
}

func describeInvalid(n int) string {
	if n == 1 {
		return "1 tracked path is"
	}
	return fmt.Sprintf("%d tracked paths are", n)
}
