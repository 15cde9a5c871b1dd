// Package app provides dependency injection container for the application
package app

import (
	"context"
	"fmt"

	"github.com/aki/gitboss/internal/core/config"
	"github.com/aki/gitboss/internal/core/discovery"
	"github.com/aki/gitboss/internal/core/git"
	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/core/reconcile"
	"github.com/aki/gitboss/internal/core/status"
)

// LoggerFactory builds the application logger from the log section of the
// settings document
type LoggerFactory func(cfg *config.LogConfig) (logger.Logger, error)

// Container holds all manager instances and their dependencies
type Container struct {
	// Config is the settings document as loaded when the container was built
	Config *config.Config

	// Core managers
	ConfigManager *config.Manager
	Locator       *discovery.Locator
	Reconciler    *reconcile.Reconciler
	Aggregator    *status.Aggregator

	// Shared dependencies
	Logger     logger.Logger
	Capability git.Capability

	loggerFactory LoggerFactory
}

// Option configures a Container
type Option func(*Container)

// WithLogger sets the logger used while loading and, without a factory,
// afterwards
func WithLogger(log logger.Logger) Option {
	return func(c *Container) {
		c.Logger = log
	}
}

// WithLoggerFactory replaces the logger once the settings document is loaded
func WithLoggerFactory(factory LoggerFactory) Option {
	return func(c *Container) {
		c.loggerFactory = factory
	}
}

// WithCapability overrides the git backend
func WithCapability(capability git.Capability) Option {
	return func(c *Container) {
		c.Capability = capability
	}
}

// NewContainer loads the settings document at configPath and creates all
// managers in dependency order
func NewContainer(ctx context.Context, configPath string, opts ...Option) (*Container, error) {
	c := &Container{
		Logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg, err := config.NewManager(configPath, config.WithLogger(c.Logger)).Load(ctx)
	if err != nil {
		return nil, err
	}
	c.Config = cfg

	if c.loggerFactory != nil {
		log, err := c.loggerFactory(&cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		c.Logger = log
	}

	if c.Capability == nil {
		c.Capability = git.NewGoGit()
	}

	c.ConfigManager = config.NewManager(configPath, config.WithLogger(c.Logger))
	c.Locator = discovery.NewLocator(c.Logger)
	c.Reconciler = reconcile.New(c.ConfigManager, c.Locator, c.Logger)
	c.Aggregator = status.NewAggregator(c.Capability, c.Logger)

	return c, nil
}
