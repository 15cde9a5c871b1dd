package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
)

// Set with -ldflags "-X github.com/aki/gitboss/internal/cli/commands.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type versionOutput struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := versionOutput{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			Go:        runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}
		return ui.GlobalFormatter.Output(out, func() {
			ui.OutputLine("gitboss version %s (%s, built %s)", out.Version, out.GitCommit, out.BuildDate)
			ui.OutputLine("%s", ui.DimStyle.Render(out.Go+" "+out.Platform))
		})
	},
}
