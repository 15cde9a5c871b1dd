package commands

import (
	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the base directory for repositories",
	Long: `Scan the base directory and add every repository found to the tracked list.
Repositories that are already tracked keep their position; nothing is removed.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var (
	scanBaseDir  string
	scanMaxDepth int
)

func init() {
	scanCmd.Flags().StringVar(&scanBaseDir, "base-dir", "", "Directory to scan (default base_directory from config)")
	scanCmd.Flags().IntVar(&scanMaxDepth, "max-depth", -1, "Levels below the base directory to scan (default max_depth from config)")
}

type scanOutput struct {
	Base         string   `json:"base"`
	MaxDepth     int      `json:"max_depth"`
	BaseMissing  bool     `json:"base_missing"`
	Found        []string `json:"found"`
	Added        int      `json:"added"`
	Skipped      []string `json:"skipped,omitempty"`
	Repositories []string `json:"repositories"`
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	base, depth, err := scanTarget(env.Config, scanBaseDir, scanMaxDepth)
	if err != nil {
		return err
	}

	report, err := env.Locator.Scan(ctx, base, depth)
	if err != nil {
		return err
	}

	reconciler := env.Reconciler
	set, err := reconciler.Load(ctx)
	if err != nil {
		return err
	}
	before := set.Len()

	set, err = reconciler.Merge(ctx, set, report.Repositories)
	if err != nil {
		return err
	}

	out := scanOutput{
		Base:         report.Base,
		MaxDepth:     report.MaxDepth,
		BaseMissing:  report.BaseMissing,
		Found:        make([]string, 0, len(report.Repositories)),
		Added:        set.Len() - before,
		Skipped:      report.Skipped,
		Repositories: set.Strings(),
	}
	for _, p := range report.Repositories {
		out.Found = append(out.Found, p.String())
	}

	return ui.GlobalFormatter.Output(out, func() {
		if report.BaseMissing {
			ui.Warning("Base directory %s does not exist", report.Base)
			return
		}
		ui.Success("Found %s under %s, %d new", pluralize(len(out.Found), "repository"), report.Base, out.Added)
		for _, dir := range report.Skipped {
			ui.Warning("Skipped unreadable directory %s", dir)
		}
		if out.Added > 0 {
			ui.OutputLine("Tracking %s", pluralize(set.Len(), "repository"))
		}
	})
}
