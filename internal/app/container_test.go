package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/git"
	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/tests/helpers"
)

func TestNewContainer(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	configPath := filepath.Join(dir, config.ConfigFile)

	cfg := config.DefaultConfig()
	cfg.BaseDirectory = dir
	require.NoError(t, config.NewManager(configPath).Save(context.Background(), cfg))

	container, err := NewContainer(context.Background(), configPath)
	require.NoError(t, err)

	assert.NotNil(t, container.ConfigManager)
	assert.NotNil(t, container.Locator)
	assert.NotNil(t, container.Reconciler)
	assert.NotNil(t, container.Aggregator)
	assert.IsType(t, &git.GoGit{}, container.Capability)
	assert.Equal(t, dir, container.Config.BaseDirectory)
	assert.Equal(t, configPath, container.ConfigManager.GetConfigPath())
}

func TestNewContainer_WiresReconcilerToConfig(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	repo := helpers.MakeFakeRepo(t, filepath.Join(dir, "src", "a"))
	configPath := filepath.Join(dir, config.ConfigFile)

	container, err := NewContainer(context.Background(), configPath, WithCapability(git.NewMockCapability()))
	require.NoError(t, err)

	set, err := container.Reconciler.Collect(context.Background(), filepath.Join(dir, "src"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{repo}, set.Strings())

	stored, err := container.ConfigManager.LoadRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{repo}, stored)
}

func TestNewContainer_LoggerFactory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: debug\n"), 0o644))

	var buf bytes.Buffer
	var seen config.LogConfig
	container, err := NewContainer(context.Background(), configPath, WithLoggerFactory(func(cfg *config.LogConfig) (logger.Logger, error) {
		seen = *cfg
		return logger.New(logger.WithOutput(&buf), logger.WithDebug()), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "debug", seen.Level)

	container.Logger.Debug("hello")
	assert.Contains(t, buf.String(), "hello")

	_, err = NewContainer(context.Background(), configPath, WithLoggerFactory(func(*config.LogConfig) (logger.Logger, error) {
		return nil, errors.New("no sink")
	}))
	assert.ErrorContains(t, err, "no sink")
}

func TestNewContainer_CorruptConfigFallsBack(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte("base_directory: [oops"), 0o644))

	var buf bytes.Buffer
	container, err := NewContainer(context.Background(), configPath, WithLogger(logger.New(logger.WithOutput(&buf))))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), container.Config)
	assert.Contains(t, buf.String(), "config was corrupted")
}
