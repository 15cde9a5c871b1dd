package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/logger"
)

// Global flags for logging configuration
var (
	flagLogLevel  string
	flagLogFormat string
	flagLogFile   string
)

// RegisterLoggerFlags registers global logging flags
func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); default from config, else warn")
	cmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")
	cmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Also write JSON logs to this rotating file")
}

// CreateBootstrapLogger creates the console logger used before the settings
// document is loaded. It only looks at CLI flags.
func CreateBootstrapLogger() logger.Logger {
	return createConsoleLogger(&config.LogConfig{})
}

// CreateLogger creates the console logger and, when a log file is set, tees it
// with a rotating file logger. Flags take precedence over the log section of
// cfg. The returned func closes the file.
func CreateLogger(cfg *config.LogConfig) (logger.Logger, func(), error) {
	console := createConsoleLogger(cfg)

	path := pick(flagLogFile, cfg.File)
	if path == "" {
		return console, func() {}, nil
	}

	level, err := logger.ParseLevel(pick(flagLogLevel, cfg.Level, "info"))
	if err != nil {
		return nil, nil, err
	}

	file, err := logger.NewFile(logger.FileOptions{Path: path, Level: level})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return logger.Tee(console, file), func() { _ = file.Close() }, nil
}

func createConsoleLogger(cfg *config.LogConfig) logger.Logger {
	level, err := logger.ParseLevel(pick(flagLogLevel, cfg.Level, "warn"))
	if err != nil {
		level, _ = logger.ParseLevel("warn")
	}

	format, err := logger.ParseFormat(pick(flagLogFormat, cfg.Format))
	if err != nil {
		format = logger.FormatText
	}

	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(os.Stderr),
	)
}

// pick returns the first non-empty value
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
