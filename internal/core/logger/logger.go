// Package logger provides structured logging for gitboss.
// It wraps Go's slog package behind a small interface so core packages can log
// without knowing whether records go to the console, a rotating file, or both.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is the interface for structured logging in gitboss.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, args ...any)
	// Info logs an info message with optional key-value pairs
	Info(msg string, args ...any)
	// Warn logs a warning message with optional key-value pairs
	Warn(msg string, args ...any)
	// Error logs an error message with optional key-value pairs
	Error(msg string, args ...any)
	// With returns a new Logger with additional context fields
	With(args ...any) Logger
	// WithGroup returns a new Logger with a group prefix
	WithGroup(name string) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// New creates a console Logger with the specified configuration
func New(opts ...Option) Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		output: os.Stderr,
		format: FormatText,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level: cfg.level,
	}

	var handler slog.Handler
	switch cfg.format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	default:
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	}

	return FromHandler(handler)
}

// FromHandler wraps an arbitrary slog.Handler
func FromHandler(h slog.Handler) Logger {
	return &slogLogger{logger: slog.New(h)}
}

// Nop returns a no-op logger that discards all log messages
func Nop() Logger {
	return &slogLogger{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Default returns a default logger that writes to stderr
func Default() Logger {
	return New()
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{
		logger: l.logger.With(args...),
	}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{
		logger: l.logger.WithGroup(name),
	}
}

// FromContext returns a Logger from the context, or a no-op logger if not found
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return logger
	}
	return Nop()
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

type loggerKey struct{}

// Tee returns a Logger that forwards every record to each of loggers
func Tee(loggers ...Logger) Logger {
	return teeLogger(loggers)
}

type teeLogger []Logger

func (t teeLogger) Debug(msg string, args ...any) {
	for _, l := range t {
		l.Debug(msg, args...)
	}
}

func (t teeLogger) Info(msg string, args ...any) {
	for _, l := range t {
		l.Info(msg, args...)
	}
}

func (t teeLogger) Warn(msg string, args ...any) {
	for _, l := range t {
		l.Warn(msg, args...)
	}
}

func (t teeLogger) Error(msg string, args ...any) {
	for _, l := range t {
		l.Error(msg, args...)
	}
}

func (t teeLogger) With(args ...any) Logger {
	out := make(teeLogger, len(t))
	for i, l := range t {
		out[i] = l.With(args...)
	}
	return out
}

func (t teeLogger) WithGroup(name string) Logger {
	out := make(teeLogger, len(t))
	for i, l := range t {
		out[i] = l.WithGroup(name)
	}
	return out
}
