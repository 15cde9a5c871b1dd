package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures a rotating JSON log file
type FileOptions struct {
	Path       string     // Path to log file
	MaxSizeMB  int        // Max size in MB before rotation
	MaxBackups int        // Max number of rotated files to keep
	MaxAgeDays int        // Max days to keep rotated files
	Level      slog.Level // Minimum level written to the file
}

// FileLogger is a Logger backed by zap writing to a lumberjack-rotated file.
// Close flushes and releases the file.
type FileLogger struct {
	Logger
	zap    *zap.Logger
	writer *lumberjack.Logger
}

// NewFile creates a rotating file logger
func NewFile(opts FileOptions) (*FileLogger, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 2
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays == 0 {
		opts.MaxAgeDays = 7
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	z := newZap(zapcore.AddSync(writer), opts.Level)

	return &FileLogger{
		Logger: FromHandler(&zapHandler{zap: z, level: toZapLevel(opts.Level)}),
		zap:    z,
		writer: writer,
	}, nil
}

// Close syncs buffered entries and closes the file
func (f *FileLogger) Close() error {
	_ = f.zap.Sync()
	return f.writer.Close()
}

func newZap(ws zapcore.WriteSyncer, level slog.Level) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		ws,
		toZapLevel(level),
	)
	return zap.New(core)
}

// zapHandler adapts zap.Logger to slog.Handler
type zapHandler struct {
	zap   *zap.Logger
	level zapcore.Level
	attrs []slog.Attr
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return toZapLevel(level) >= h.level
}

func (h *zapHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields = append(fields, zapField(attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zapField(attr))
		return true
	})

	switch toZapLevel(r.Level) {
	case zapcore.DebugLevel:
		h.zap.Debug(r.Message, fields...)
	case zapcore.WarnLevel:
		h.zap.Warn(r.Message, fields...)
	case zapcore.ErrorLevel:
		h.zap.Error(r.Message, fields...)
	default:
		h.zap.Info(r.Message, fields...)
	}
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &zapHandler{zap: h.zap, level: h.level, attrs: merged}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	return &zapHandler{zap: h.zap.Named(name), level: h.level, attrs: h.attrs}
}

func zapField(attr slog.Attr) zap.Field {
	if err, ok := attr.Value.Any().(error); ok {
		return zap.NamedError(attr.Key, err)
	}
	return zap.Any(attr.Key, attr.Value.Resolve().Any())
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
