// Package config provides configuration management for the gradebook.
//
// Settings come from, lowest priority first: built-in defaults, a YAML config
// file, a .env file, environment variables, and finally command line flags
// applied by the caller.
//
// Config file locations (priority order):
//  1. $GRADEBOOK_CONFIG
//  2. ./gradebook.yaml
//  3. $XDG_CONFIG_HOME/gradebook/config.yaml
//  4. ~/.config/gradebook/config.yaml
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvDataDir   = "GRADEBOOK_DATA_DIR"
	EnvBackend   = "GRADEBOOK_BACKEND"
	EnvDBPath    = "GRADEBOOK_DB"
	EnvLogLevel  = "GRADEBOOK_LOG_LEVEL"
	EnvLogFormat = "GRADEBOOK_LOG_FORMAT"
)

const (
	defaultDataDir = "data"
	defaultDBName  = "gradebook.db"
)

// Load reads .env, finds and loads the config file (or defaults), then
// applies environment overrides
func Load() (*Config, string, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, "", fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := DefaultConfig()
	path := FindConfigPath()
	if path != "" {
		var err error
		cfg, _, err = LoadFromPath(path)
		if err != nil {
			return nil, path, err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Backend: BackendText,
			DataDir: defaultDataDir,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendText
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides settings from the environment; getenv is usually os.Getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.Storage.DataDir = v
	}
	if v := getenv(EnvBackend); v != "" {
		c.Storage.Backend = Backend(strings.ToLower(v))
	}
	if v := getenv(EnvDBPath); v != "" {
		c.Storage.DBPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

// Validate rejects settings the program cannot act on
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendText:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the %s backend", c.Storage.Backend)
		}
	case BackendSQLite:
		if c.Storage.DBPath == "" && c.Storage.DataDir == "" {
			return fmt.Errorf("storage.db_path or storage.data_dir is required for the %s backend", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses the configured level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	location := c.Storage.DataDir
	if c.Storage.Backend == BackendSQLite {
		location = c.Storage.DatabasePath()
	}
	return fmt.Sprintf("Backend: %s (%s), Log: %s/%s",
		c.Storage.Backend, location, c.Log.Level, c.Log.Format)
}
