package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for pairplan.
// Values are populated from .pairplan.yaml, PAIRPLAN_* env vars, and CLI flags.
type Config struct {
	DefaultMode   string        `mapstructure:"default_mode"`
	StorePath     string        `mapstructure:"store_path"`
	TelemetryPath string        `mapstructure:"telemetry_path"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	NoColor       bool          `mapstructure:"no_color"`
	Verbose       bool          `mapstructure:"verbose"`
}

// DefaultStorePath returns ~/.pairplan/sessions.db, or a path relative to
// the working directory when the home directory cannot be resolved.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pairplan", "sessions.db")
	}
	return filepath.Join(home, ".pairplan", "sessions.db")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("default_mode", "waves")
	viper.SetDefault("store_path", DefaultStorePath())
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("watch_debounce", 100*time.Millisecond)
	viper.SetDefault("no_color", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.WatchDebounce <= 0 {
		return Config{}, fmt.Errorf("config: watch_debounce must be positive, got %s", cfg.WatchDebounce)
	}
	return cfg, nil
}
