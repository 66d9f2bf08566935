package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	SportType  string `json:"sport_type"`
	FetchLimit int    `json:"fetch_limit"`
	ExportDir  string `json:"export_dir"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		SportType:  "Run",
		FetchLimit: 200,
		ExportDir:  "exports",
	}
}

// Load reads the configuration from ~/.runsight/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.SportType == "" {
		cfg.SportType = defaults.SportType
	}
	if cfg.FetchLimit == 0 {
		cfg.FetchLimit = defaults.FetchLimit
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = defaults.ExportDir
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.runsight/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// LoadOrDefault loads the config, falling back to defaults when the
// file doesn't exist yet.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		defaults := DefaultConfig()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the config has usable values
func (c *Config) Validate() error {
	if c.SportType == "" {
		return errors.New("sport_type is required")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch_limit must be positive, got %d", c.FetchLimit)
	}
	if c.ExportDir == "" {
		return errors.New("export_dir is required")
	}
	return nil
}

// ExportPath resolves the export directory. A relative path is taken
// under the config directory.
func (c *Config) ExportPath() (string, error) {
	if filepath.IsAbs(c.ExportDir) {
		return c.ExportDir, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.ExportDir), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runsight"), nil
}
