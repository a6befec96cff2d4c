package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/stringlab/config.yaml"

// Environment variables consulted by ApplyEnv.
const (
	EnvPort     = "PORT"
	EnvMode     = "STRINGLAB_ENV"
	EnvLogLevel = "STRINGLAB_LOG_LEVEL"
)

// Config holds all stringlab configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host                   string   `yaml:"host"`
	Port                   int      `yaml:"port"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
	MaxRequestSize         int64    `yaml:"max_request_size"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`

	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	return cfg, nil
}

// ApplyEnv overlays environment overrides onto cfg. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s %q", EnvPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvMode); ok && strings.EqualFold(v, "production") {
		c.Logging.Format = FormatJSON
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxRequestSize <= 0 {
		return errors.Newf("server.max_request_size must be positive, got %d", c.Server.MaxRequestSize)
	}
	if c.Server.RateLimit < 0 {
		return errors.Newf("server.rate_limit must not be negative, got %g", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return errors.Newf("server.rate_burst must be at least 1 when rate_limit is set, got %d", c.Server.RateBurst)
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite backend")
		}
	default:
		return errors.WithHintf(
			errors.Newf("unknown storage.backend %q", c.Storage.Backend),
			"use %q or %q", BackendMemory, BackendSQLite)
	}
	if !validLevels[c.Logging.Level] {
		return errors.Newf("unknown logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != FormatConsole && c.Logging.Format != FormatJSON {
		return errors.Newf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolving home directory")
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "creating config directory")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling default config")
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, errors.Wrap(err, "writing default config")
		}

		return cfg, nil
	}

	return Load(path)
}
