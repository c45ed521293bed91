// Package config loads tool configuration from a YAML file and the
// environment. Flags on the CLI override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved tool configuration.
type Config struct {
	// DataDir is the root of the JSON cache layout.
	DataDir string `mapstructure:"data_dir"`

	// BaseURL is the schedule API endpoint serving version.json,
	// speaker.json and schedule_<id>.json.
	BaseURL string `mapstructure:"base_url"`

	// Environment selects the cache path prefix, "prod" or "test".
	Environment string `mapstructure:"environment"`

	// DefaultsDir holds the bundled default cache files copied on first
	// read. Empty disables the bootstrap fallback.
	DefaultsDir string `mapstructure:"defaults_dir"`

	// CompactJSON writes cache files without indentation.
	CompactJSON bool `mapstructure:"compact_json"`

	// QueryCachePath is the derived SQLite index file.
	QueryCachePath string `mapstructure:"query_cache_path"`

	// DashboardPort is the WebSocket progress server port.
	DashboardPort int `mapstructure:"dashboard_port"`

	// Daemon settings.
	CheckInterval time.Duration `mapstructure:"check_interval"`
	WatchFeeds    bool          `mapstructure:"watch_feeds"`
	LogFile       string        `mapstructure:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".schedsync")
	return &Config{
		DataDir:        dataDir,
		BaseURL:        "https://api.techcon.io/schedule",
		Environment:    "prod",
		QueryCachePath: filepath.Join(dataDir, "index.db"),
		DashboardPort:  8090,
		CheckInterval:  15 * time.Minute,
	}
}

// Load reads configuration from path (or the default search locations
// when path is empty) and the SCHEDSYNC_* environment. A missing config
// file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("defaults_dir", "")
	v.SetDefault("compact_json", false)
	v.SetDefault("query_cache_path", "")
	v.SetDefault("dashboard_port", defaults.DashboardPort)
	v.SetDefault("check_interval", defaults.CheckInterval)
	v.SetDefault("watch_feeds", false)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("SCHEDSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("schedsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "schedsync"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.QueryCachePath == "" {
		cfg.QueryCachePath = filepath.Join(cfg.DataDir, "index.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	switch c.Environment {
	case "prod", "test":
	default:
		return fmt.Errorf("environment %q wrong: expected prod or test", c.Environment)
	}
	if c.DashboardPort < 0 || c.DashboardPort > 65535 {
		return fmt.Errorf("dashboard_port %d out of range", c.DashboardPort)
	}
	return nil
}
