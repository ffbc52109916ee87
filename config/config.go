// Package config loads the application configuration from a YAML file.
// Every field has a usable default so a missing file is not an error: the
// journal works offline with no configuration at all, and only the exchange
// sync, watch and notification features need credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// Database is the path of the SQLite ledger file.
	Database string `yaml:"database"`

	// Symbols extends the stablecoin synonym table without a code change.
	Symbols struct {
		ReferenceQuote string   `yaml:"reference_quote"`
		Synonyms       []string `yaml:"synonyms"`
	} `yaml:"symbols"`

	Binance struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		// Symbols to sync explicitly, in addition to discovered ones.
		Symbols []string `yaml:"symbols"`
	} `yaml:"binance"`

	Watch struct {
		// IntervalHours between sync-and-analyze passes.
		IntervalHours int `yaml:"interval_hours"`
		// InitialSyncDays bounds the first sync when no metadata exists.
		InitialSyncDays int `yaml:"initial_sync_days"`
		// Symbols monitored by the signal engine.
		Symbols []string `yaml:"symbols"`
	} `yaml:"watch"`

	Email struct {
		Enabled  bool     `yaml:"enabled"`
		Host     string   `yaml:"host"`
		Port     int      `yaml:"port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
	} `yaml:"email"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{Database: "data/trading_journal.db"}
	cfg.Watch.IntervalHours = 4
	cfg.Watch.InitialSyncDays = 30
	cfg.Email.Port = 587
	return cfg
}

// Load reads the configuration file at path, applying defaults for absent
// fields. A missing file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.Database == "" {
		cfg.Database = Default().Database
	}
	if cfg.Watch.IntervalHours <= 0 {
		cfg.Watch.IntervalHours = Default().Watch.IntervalHours
	}
	if cfg.Watch.InitialSyncDays <= 0 {
		cfg.Watch.InitialSyncDays = Default().Watch.InitialSyncDays
	}
	return cfg, nil
}

// WatchInterval returns the watch loop interval as a duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watch.IntervalHours) * time.Hour
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}
