package config

import "path/filepath"

// Backend selects the storage implementation
type Backend string

const (
	BackendText   Backend = "text"
	BackendSQLite Backend = "sqlite"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig says where the gradebook lives
type StorageConfig struct {
	Backend Backend `yaml:"backend"`
	DataDir string  `yaml:"data_dir"`          // text backend: directory of the .txt files
	DBPath  string  `yaml:"db_path,omitempty"` // sqlite backend: database file, default <data_dir>/gradebook.db
}

// DatabasePath returns the sqlite database file. Without an explicit
// db_path it lives in the data directory, wherever that ends up after
// env and flag overrides.
func (s StorageConfig) DatabasePath() string {
	if s.DBPath != "" {
		return s.DBPath
	}
	return filepath.Join(s.DataDir, defaultDBName)
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
