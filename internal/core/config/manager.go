// Package config provides the gitboss settings document and its storage.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/filemanager"
)

const (
	// AppDir is the directory name under the user config directory
	AppDir = "gitboss"
	// ConfigFile is the filename for the settings document
	ConfigFile = "config.yaml"
	// CorruptedSuffix is appended to a document that failed to parse
	CorruptedSuffix = ".corrupted"

	// EnvConfigPath overrides the document location
	EnvConfigPath = "GITBOSS_CONFIG"
)

// Manager loads and saves the settings document at one injected path
type Manager struct {
	configPath string
	fm         *filemanager.Manager[Config]
	log        logger.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used to report recovered problems
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a manager for the document at configPath
func NewManager(configPath string, opts ...Option) *Manager {
	m := &Manager{
		configPath: configPath,
		fm:         filemanager.NewManager[Config](),
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultPath resolves the document location: $GITBOSS_CONFIG, then
// $XDG_CONFIG_HOME/gitboss/config.yaml, then ~/.config/gitboss/config.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, AppDir, ConfigFile)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", AppDir, ConfigFile)
	}

	return filepath.Join(home, ".config", AppDir, ConfigFile)
}

// GetConfigPath returns the document path
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetConfigDir returns the directory holding the document
func (m *Manager) GetConfigDir() string {
	return filepath.Dir(m.configPath)
}

// IsInitialized reports whether the document exists
func (m *Manager) IsInitialized() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// Load reads the document. A missing document yields defaults. A document
// that cannot be parsed is moved aside to "<path>.corrupted" and defaults are
// returned.
func (m *Manager) Load(ctx context.Context) (*Config, error) {
	cfg, _, err := m.fm.Read(ctx, m.configPath)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return DefaultConfig(), nil
		case errors.Is(err, filemanager.ErrDecode):
			m.quarantine(err)
			return DefaultConfig(), nil
		default:
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save validates cfg and replaces the document atomically
func (m *Manager) Save(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	applyDefaults(cfg)
	if err := m.fm.Write(ctx, m.configPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Update applies fn to the current document and saves it. Fields fn does not
// touch, including unknown keys, are preserved.
func (m *Manager) Update(ctx context.Context, fn func(cfg *Config) error) error {
	update := func(cfg *Config) error {
		applyDefaults(cfg)
		if err := fn(cfg); err != nil {
			return err
		}
		return cfg.Validate()
	}

	err := m.fm.Update(ctx, m.configPath, update)
	if errors.Is(err, filemanager.ErrDecode) {
		m.quarantine(err)
		err = m.fm.Update(ctx, m.configPath, update)
	}
	if err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	return nil
}

// LoadRepositories returns the persisted repository list
func (m *Manager) LoadRepositories(ctx context.Context) ([]string, error) {
	cfg, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Repositories, nil
}

// SaveRepositories replaces the persisted repository list and nothing else.
// Other fields are written back as read: no defaults, no validation. Only a
// missing or empty document is filled with defaults.
func (m *Manager) SaveRepositories(ctx context.Context, repositories []string) error {
	saved := make([]string, len(repositories))
	copy(saved, repositories)

	update := func(cfg *Config) error {
		if reflect.DeepEqual(*cfg, Config{}) {
			*cfg = *DefaultConfig()
		}
		cfg.Repositories = saved
		return nil
	}

	err := m.fm.Update(ctx, m.configPath, update)
	if errors.Is(err, filemanager.ErrDecode) {
		m.quarantine(err)
		err = m.fm.Update(ctx, m.configPath, update)
	}
	if err != nil {
		return fmt.Errorf("failed to save repositories: %w", err)
	}
	return nil
}

func (m *Manager) quarantine(cause error) {
	corrupted := m.configPath + CorruptedSuffix
	if err := os.Rename(m.configPath, corrupted); err != nil && !os.IsNotExist(err) {
		m.log.Error("failed to move corrupted config aside", "path", m.configPath, "error", err)
		return
	}
	m.log.Warn("config was corrupted, reset to defaults", "path", m.configPath, "backup", corrupted, "error", cause)
}
