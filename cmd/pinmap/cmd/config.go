package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config stores settings read from the configuration file.
type Config struct {
	Database string   `yaml:"database"`
	Exclude  []string `yaml:"exclude"`
	Rules    string   `yaml:"rules"`

	path string
}

// defaultConfigPath returns the path of the per-user configuration file.
func defaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pinmap", "config.yaml"), nil
	}
	if dir := os.Getenv("APPDATA"); dir != "" {
		// Windows: use %APPDATA%\pinmap
		return filepath.Join(dir, "pinmap", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "pinmap", "config.yaml"), nil
}

// LoadConfig reads a configuration file. A missing file gives an empty
// configuration unless it was explicitly requested.
func LoadConfig(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.path = path

	// Relative paths are relative to the configuration file.
	dir := filepath.Dir(path)
	if config.Database != "" && !filepath.IsAbs(config.Database) {
		config.Database = filepath.Join(dir, config.Database)
	}
	if config.Rules != "" && !filepath.IsAbs(config.Rules) {
		config.Rules = filepath.Join(dir, config.Rules)
	}

	return &config, nil
}
