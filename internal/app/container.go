// Package app provides application initialization, lifecycle management,
// and the explicit application context for starter.
package app

import (
	"sync"

	"github.com/tungetti/starter/internal/config"
	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/ledger"
	"github.com/tungetti/starter/internal/logconf"
	"github.com/tungetti/starter/internal/logging"
)

// Container is the application context handed to commands. It holds the
// configuration, the log-level store, the logger registry, the error ledger
// and the root logger of one run.
type Container struct {
	mu       sync.RWMutex
	Config   *config.Config
	Store    *logconf.Store
	Registry *logging.Registry
	Ledger   *ledger.Ledger
	Logger   logging.Logger
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// SetConfig sets the configuration.
func (c *Container) SetConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Config = cfg
}

// SetStore sets the log-level store.
func (c *Container) SetStore(s *logconf.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Store = s
}

// SetRegistry sets the logger registry.
func (c *Container) SetRegistry(r *logging.Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Registry = r
}

// SetLedger sets the error ledger.
func (c *Container) SetLedger(l *ledger.Ledger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Ledger = l
}

// SetLogger sets the root logger.
func (c *Container) SetLogger(l logging.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Logger = l
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// GetStore returns the log-level store.
func (c *Container) GetStore() *logconf.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Store
}

// GetRegistry returns the logger registry.
func (c *Container) GetRegistry() *logging.Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Registry
}

// GetLedger returns the error ledger.
func (c *Container) GetLedger() *ledger.Ledger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Ledger
}

// GetLogger returns the root logger.
func (c *Container) GetLogger() logging.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logger
}

// Validate checks that all required dependencies are set.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.Config == nil:
		return errors.New(errors.Configuration, "config not initialized")
	case c.Store == nil:
		return errors.New(errors.Configuration, "log level store not initialized")
	case c.Registry == nil:
		return errors.New(errors.Configuration, "logger registry not initialized")
	case c.Ledger == nil:
		return errors.New(errors.Configuration, "error ledger not initialized")
	case c.Logger == nil:
		return errors.New(errors.Configuration, "logger not initialized")
	}
	return nil
}
