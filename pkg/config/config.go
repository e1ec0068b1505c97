// Package config loads and persists the trainctl configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the trainctl configuration
type Config struct {
	APIURL         string `yaml:"api_url"`                   // e.g. "https://api.trainhub.example.com"
	Email          string `yaml:"email"`                     // account email
	Token          string `yaml:"token,omitempty"`           // bearer token (deprecated: use keyring)
	UseKeyring     bool   `yaml:"use_keyring,omitempty"`     // store the token in the OS keyring
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // per-attempt transport timeout
	TemplatesDir   string `yaml:"templates_dir,omitempty"`   // custom questionnaire templates directory
}

const (
	// ConfigDirName is the name of the config directory
	ConfigDirName = ".trainctl"
	// ConfigFileName is the name of the config file
	ConfigFileName = "config.yaml"
	// ConfigFilePerms is the file permission for the config file (read/write for owner only)
	ConfigFilePerms = 0600
	// ConfigDirPerms is the directory permission for the config directory
	ConfigDirPerms = 0700

	// EnvAPIURL overrides the configured API URL
	EnvAPIURL = "TRAINHUB_API_URL"
	// EnvToken overrides the configured bearer token
	EnvToken = "TRAINHUB_TOKEN"
)

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ConfigDirName, ConfigFileName), nil
}

// GetConfigDir returns the full path to the config directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ConfigDirName), nil
}

// Load reads the config file from the default location and returns a Config struct
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(configPath)
}

// LoadFromPath reads the config file from a specific path and returns a Config struct
func LoadFromPath(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s. Run 'trainctl configure' to set up", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads the config file or returns an empty config if not found
func LoadOrDefault() *Config {
	config, err := Load()
	if err != nil {
		cfg := &Config{}
		cfg.applyEnv()
		return cfg
	}
	return config
}

// applyEnv layers process environment overrides over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
}

// Save writes the config to the config file
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, ConfigDirPerms); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, ConfigFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the config has all required fields
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	return nil
}
