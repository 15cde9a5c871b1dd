package config

import (
	"fmt"
	"slices"

	"github.com/aki/gitboss/internal/core/logger"
)

// Validate checks field values
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", *c.MaxDepth)
	}

	if c.AutoFetchInterval < 0 {
		return fmt.Errorf("auto_fetch_interval must be >= 0, got %d", c.AutoFetchInterval)
	}

	if c.DefaultTheme != "" && !slices.Contains(Themes, c.DefaultTheme) {
		return fmt.Errorf("unsupported default_theme: %s (expected one of %v)", c.DefaultTheme, Themes)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}

	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("invalid log.format: %w", err)
	}

	return nil
}
