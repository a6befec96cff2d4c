package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/config"
	"github.com/runnerr0/stringlab/internal/logging"
	"github.com/runnerr0/stringlab/internal/server"
	"github.com/runnerr0/stringlab/internal/storage"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.executeWithConfig(ctx, cfg)
}

// applyOverrides copies explicitly set flags onto cfg.
func (c *ServeCommand) applyOverrides(cfg *config.Config) {
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.Backend != "" {
		cfg.Storage.Backend = c.Backend
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.globals != nil && c.globals.Verbose {
		cfg.Logging.Level = "debug"
	}
}

// executeWithConfig runs the server against a resolved config until ctx is done (used by tests).
func (c *ServeCommand) executeWithConfig(ctx context.Context, cfg *config.Config) error {
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "opening store")
	}
	defer store.Close()

	logger.Infow("Starting stringlab",
		"version", c.version,
		"addr", cfg.Server.Addr(),
		"backend", cfg.Storage.Backend)

	return server.New(store, cfg.Server, logger, c.version).Run(ctx)
}
