package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   3000,
			AllowedOrigins:         []string{"*"},
			MaxRequestSize:         1048576,
			ShutdownTimeoutSeconds: 10,
			RateLimit:              0,
			RateBurst:              20,
		},
		Storage: StorageConfig{
			Backend:    BackendMemory,
			SQLitePath: ":memory:",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}
