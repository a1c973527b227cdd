// Package config manages the certbind tool configuration stored in YAML
// format at ~/.config/certbind/config.yaml.
//
// The configuration names the server-configuration file holding the sites
// and bindings, the credential store file, the canonical store name written
// into rebound bindings, and the default for the empty-host opt-in. A
// missing file yields the defaults; paths left empty resolve under the
// config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// SitesPath is the server-configuration file enumerating sites.
	SitesPath string `yaml:"sites_path,omitempty"`

	// StorePath is the credential store file.
	StorePath string `yaml:"store_path,omitempty"`

	// StoreName is the canonical store name bindings reference.
	StoreName string `yaml:"store_name"`

	// UpdateEmptyHost opts catch-all bindings into updates by default.
	UpdateEmptyHost bool `yaml:"update_empty_host"`
}

// configDir is the default config directory
const configDir = ".config/certbind"
const configFile = "config.yaml"

// DefaultStoreName is used when the config does not name a store.
const DefaultStoreName = "certbind"

// New creates a new Config with default values
func New() *Config {
	return &Config{
		StoreName: DefaultStoreName,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := New()

	// If config doesn't exist, use defaults
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults resolves empty fields against the config directory.
func (c *Config) applyDefaults() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if c.SitesPath == "" {
		c.SitesPath = filepath.Join(dir, "sites.yaml")
	}
	if c.StorePath == "" {
		c.StorePath = filepath.Join(dir, "certs.yaml")
	}
	if c.StoreName == "" {
		c.StoreName = DefaultStoreName
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
