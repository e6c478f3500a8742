// Package config loads the workstore configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration, stored as YAML.
type Config struct {
	// DBPath is the work store database file.
	DBPath string `yaml:"db_path"`

	// LegacyDBPath is the previous deployment's store file, consulted
	// once per startup by legacy recovery.
	LegacyDBPath string `yaml:"legacy_db_path"`
}

// Default returns the configuration used when no file exists. Both
// stores live under the user's workstore directory; the legacy file is
// the name the pre-1.0 releases wrote to.
func Default() *Config {
	dir := baseDir()
	return &Config{
		DBPath:       filepath.Join(dir, "workstore.db"),
		LegacyDBPath: filepath.Join(dir, "workstore-v0.db"),
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".workstore")
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, then applies environment overrides
// (WORKSTORE_DB, WORKSTORE_LEGACY_DB).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("WORKSTORE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WORKSTORE_LEGACY_DB"); v != "" {
		cfg.LegacyDBPath = v
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("config %s: db_path must not be empty", path)
	}
	return cfg, nil
}

// Save writes the config file, creating its directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
