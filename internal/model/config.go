package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SchedulerConfig holds settings for the deadline scan scheduler.
type SchedulerConfig struct {
	// IntervalSec is how often (in seconds) the deadline scan runs.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// IdentityConfig holds settings for the external identity store client.
type IdentityConfig struct {
	// BaseURL is the root URL of the identity service. When empty the
	// daemon falls back to the in-memory directory (single-node dev).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single directory lookup.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// LogConfig holds settings for the rotating application log.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DatabasePath is the SQLite database file location.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// Timezone names the IANA location used for calendar-day queries
	// and for rendering deadlines in notification messages.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Identity  IdentityConfig  `mapstructure:"identity" yaml:"identity"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// Location resolves the configured timezone. An empty or invalid name
// falls back to UTC rather than failing startup.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/teamspace/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "teamspace", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DatabasePath: "teamspace.db",
		Timezone:     "UTC",
		Scheduler: SchedulerConfig{
			IntervalSec: 300,
		},
		Identity: IdentityConfig{
			TimeoutSec: 5,
		},
		Log: LogConfig{
			File:       "logs/teamspace.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper, with TEAMSPACE_* environment variables taking precedence.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database_path", "teamspace.db")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("scheduler.interval_sec", 300)
	v.SetDefault("identity.timeout_sec", 5)
	v.SetDefault("log.file", "logs/teamspace.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetEnvPrefix("teamspace")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
