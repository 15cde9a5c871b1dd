package commands

import (
	"context"
	"fmt"

	"github.com/aki/gitboss/internal/app"
	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/logger"
)

// environment is the application container plus the log file it opened
type environment struct {
	*app.Container
	closeLog func()
}

func (e *environment) Close() {
	if e.closeLog != nil {
		e.closeLog()
	}
}

func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.DefaultPath()
}

func newConfigManager(log logger.Logger) *config.Manager {
	return config.NewManager(configPath(), config.WithLogger(log))
}

// createEnvironment loads the settings document and builds the logger from it
func createEnvironment(ctx context.Context) (*environment, error) {
	env := &environment{}

	container, err := app.NewContainer(ctx, configPath(),
		app.WithLogger(CreateBootstrapLogger()),
		app.WithLoggerFactory(func(cfg *config.LogConfig) (logger.Logger, error) {
			log, closeLog, err := CreateLogger(cfg)
			env.closeLog = closeLog
			return log, err
		}),
	)
	if err != nil {
		return nil, err
	}

	env.Container = container
	return env, nil
}

// scanTarget resolves the base directory and depth from flags and config.
// A negative depthFlag means "not set".
func scanTarget(cfg *config.Config, baseFlag string, depthFlag int) (string, int, error) {
	base := baseFlag
	if base == "" {
		base = cfg.BaseDirectory
	}
	if base == "" {
		return "", 0, errNoBaseDirectory()
	}

	depth := cfg.Depth()
	if depthFlag >= 0 {
		depth = depthFlag
	}
	return base, depth, nil
}

type repositoryListOutput struct {
	Repositories []string `json:"repositories"`
	Count        int      `json:"count"`
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
