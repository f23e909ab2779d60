// Package config loads and saves application configuration the same way it
// is stored on disk: a YAML file under the user config dir with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the lending server configuration
type ServerConfig struct {
	URL string `mapstructure:"url"` // Base API URL, e.g. http://localhost:8080/api
}

// UIConfig holds UI configuration
type UIConfig struct {
	PageSize int `mapstructure:"page_size"` // Catalog rows requested per page
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8080/api",
		},
		UI: UIConfig{
			PageSize: 12,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(DataDir(), "libris.log"),
			Level: "INFO",
		},
	}
}

// DataDir returns the directory for local state (session db, log file)
func DataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "libris")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "libris")
	}
}

// configDir returns the config file directory for the current OS
func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "libris")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "libris")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("LIBRIS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults apply
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the current configuration to the config file
func SaveConfig(cfg *Config) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set keys individually so the written names stay snake_case
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("ui.page_size", cfg.UI.PageSize)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
