// Package config handles reading and writing the launcher's config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version int `yaml:"version"`
	// Provider selects the identity-provider credential preset. The
	// legacy names "eas" and "epic" both map to the launcher preset.
	Provider string `yaml:"provider"`
	// StorageDir overrides where account records, the ownership token
	// cache and the event log live. Empty means the default directory.
	StorageDir string `yaml:"storage_dir"`
	// UpdateCheck controls the pre-login version check for games that
	// enforce one.
	UpdateCheck bool         `yaml:"update_check"`
	Launch      LaunchConfig `yaml:"launch"`
}

// LaunchConfig holds the fixed environment arguments passed to games.
type LaunchConfig struct {
	Environment string `yaml:"environment"`
	Locale      string `yaml:"locale"`
}

const configFile = "config.yaml"

// DefaultDir returns the launcher's config/storage directory:
// $ERIC_CONFIG_DIR if set, otherwise the platform user config dir.
func DefaultDir() string {
	if env := os.Getenv("ERIC_CONFIG_DIR"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, "eric")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".eric")
}

// ReadConfig reads config.yaml from dir. Returns an error if the file
// is not found or the YAML is malformed; callers fall back to
// DefaultConfig.
func ReadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// WriteConfig writes cfg to config.yaml in dir, creating dir as needed.
func WriteConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		Provider:    "epic",
		UpdateCheck: true,
		Launch: LaunchConfig{
			Environment: "Prod",
			Locale:      "en-US",
		},
	}
}

// Storage resolves the storage root for account records.
func (c *Config) Storage() string {
	if c.StorageDir != "" {
		return c.StorageDir
	}
	return DefaultDir()
}

// applyDefaults fills fields an older config file may not carry.
func applyDefaults(cfg *Config) {
	if cfg.Launch.Environment == "" {
		cfg.Launch.Environment = "Prod"
	}
	if cfg.Launch.Locale == "" {
		cfg.Launch.Locale = "en-US"
	}
	if cfg.Provider == "" {
		cfg.Provider = "epic"
	}
}
