package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/cli/ui"
	"github.com/aki/gitboss/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan whenever repositories appear under the base directory",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var (
	watchDebounce time.Duration
	watchPoll     time.Duration
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a rescan")
	watchCmd.Flags().DurationVar(&watchPoll, "poll", 0, "Also rescan on this interval (0 disables)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	env, err := createEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	base, depth, err := scanTarget(env.Config, "", -1)
	if err != nil {
		return err
	}

	reconciler := env.Reconciler
	set, err := reconciler.Collect(ctx, base, depth)
	if err != nil {
		return err
	}
	tracked := set.Len()

	onChange := func(ctx context.Context) error {
		current, err := reconciler.Load(ctx)
		if err != nil {
			return err
		}
		next, err := reconciler.Rescan(ctx, current, base, depth)
		if err != nil {
			return err
		}
		if added := next.Len() - current.Len(); added > 0 {
			ui.Success("Tracking %s (+%d)", pluralize(next.Len(), "repository"), added)
		}
		return nil
	}

	w, err := watch.New(watch.Options{
		Base:         base,
		MaxDepth:     depth,
		Debounce:     watchDebounce,
		PollInterval: watchPoll,
	}, onChange, env.Logger)
	if err != nil {
		return err
	}

	ui.Info("Watching %s (depth %d), tracking %s. Press Ctrl+C to stop", base, depth, pluralize(tracked, "repository"))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
