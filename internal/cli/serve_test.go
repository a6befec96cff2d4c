package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/stringlab/internal/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Logging.Level = "error"
	return cfg
}

func TestServe_ApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := &ServeCommand{
		Host:     "127.0.0.1",
		Port:     8080,
		Backend:  config.BackendSQLite,
		LogLevel: "warn",
		globals:  &GlobalFlags{},
	}
	cmd.applyOverrides(cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestServe_VerboseForcesDebug(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := &ServeCommand{globals: &GlobalFlags{Verbose: true}}
	cmd.applyOverrides(cfg)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestServe_UnsetFlagsKeepConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	(&ServeCommand{globals: &GlobalFlags{}}).applyOverrides(cfg)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestServe_StopsOnCancelledContext(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			cmd := &ServeCommand{Backend: backend, globals: &GlobalFlags{}, version: "test"}
			require.NoError(t, cmd.executeWithConfig(ctx, testConfig()))
		})
	}
}

func TestServe_InvalidConfig(t *testing.T) {
	cmd := &ServeCommand{Backend: "redis", globals: &GlobalFlags{}}
	err := cmd.executeWithConfig(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
