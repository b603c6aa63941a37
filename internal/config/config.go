// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Sonarr    BackendConfig   `toml:"sonarr"`
	Radarr    BackendConfig   `toml:"radarr"`
	Cleaner   CleanerConfig   `toml:"cleaner"`
	Database  DatabaseConfig  `toml:"database"`
	Discovery DiscoveryConfig `toml:"discovery"`
}

// ServerConfig holds the status API configuration
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr" env:"SWEEPARR__LISTEN_ADDR"`
}

// BackendConfig holds the connection details for one backend instance
type BackendConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// Configured reports whether the backend has both a URL and an API key
func (b BackendConfig) Configured() bool {
	return b.URL != "" && b.APIKey != ""
}

// CleanerConfig holds the escalation thresholds and timing of the cleaning
// loop. Intervals and timeouts are expressed in seconds.
type CleanerConfig struct {
	PollInterval             int   `toml:"poll_interval" env:"SWEEPARR__POLL_INTERVAL"`
	APITimeout               int   `toml:"api_timeout" env:"API_TIMEOUT"`
	StrikeCount              int   `toml:"strike_count" env:"STRIKE_COUNT"`
	NoProgressThresholdBytes int64 `toml:"no_progress_threshold_bytes" env:"SWEEPARR__NO_PROGRESS_THRESHOLD"`
	NoProgressStrikeCount    int   `toml:"no_progress_strike_count" env:"SWEEPARR__NO_PROGRESS_STRIKES"`
	MissingSearchInterval    int   `toml:"missing_search_interval" env:"SWEEPARR__MISSING_SEARCH_INTERVAL"`
}

// Interval returns the poll interval as a duration
func (c CleanerConfig) Interval() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// Timeout returns the per-call API timeout as a duration
func (c CleanerConfig) Timeout() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// MissingSearchEvery returns the periodic Sonarr missing-episode search
// interval; zero means the search is disabled
func (c CleanerConfig) MissingSearchEvery() time.Duration {
	return time.Duration(c.MissingSearchInterval) * time.Second
}

// DatabaseConfig holds the remediation history store configuration
type DatabaseConfig struct {
	Type     string `toml:"type" env:"SWEEPARR__DB_TYPE"`
	Path     string `toml:"path" env:"SWEEPARR__DB_PATH"`
	Host     string `toml:"host" env:"SWEEPARR__DB_HOST"`
	Port     int    `toml:"port" env:"SWEEPARR__DB_PORT"`
	User     string `toml:"user" env:"SWEEPARR__DB_USER"`
	Password string `toml:"password" env:"SWEEPARR__DB_PASSWORD"`
	Name     string `toml:"name" env:"SWEEPARR__DB_NAME"`
}

// DiscoveryConfig holds the backend auto-discovery configuration
type DiscoveryConfig struct {
	Enabled    bool   `toml:"enabled" env:"SWEEPARR__DISCOVERY"`
	ConfigFile string `toml:"config_file" env:"SWEEPARR__DISCOVERY_CONFIG"`
}

// New returns a configuration populated with defaults
func New() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8181",
		},
		Cleaner: CleanerConfig{
			PollInterval:             300,
			APITimeout:               30,
			StrikeCount:              3,
			NoProgressThresholdBytes: 1 << 20,
			NoProgressStrikeCount:    3,
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./data/sweeparr.db",
		},
	}
}

// LoadConfig loads the configuration from a TOML file
func LoadConfig(path string) (*Config, error) {
	config := New()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	// Override with environment variables if they exist
	LoadEnvOverrides(config)

	return config, nil
}

// HasRequiredEnvVars reports whether enough environment variables are set to
// run without a configuration file
func HasRequiredEnvVars() bool {
	return (os.Getenv("SONARR_URL") != "" && os.Getenv("SONARR_API_KEY") != "") ||
		(os.Getenv("RADARR_URL") != "" && os.Getenv("RADARR_API_KEY") != "")
}

// LoadEnvOverrides checks for environment variables and overrides config values
func LoadEnvOverrides(config *Config) {
	// Server
	if env := os.Getenv("SWEEPARR__LISTEN_ADDR"); env != "" {
		config.Server.ListenAddr = env
	}

	// Backends. The bare variable names match the environment of the original
	// cleanup scripts so existing deployments keep working.
	if env := os.Getenv("SONARR_URL"); env != "" {
		config.Sonarr.URL = env
	}
	if env := os.Getenv("SONARR_API_KEY"); env != "" {
		config.Sonarr.APIKey = env
	}
	if env := os.Getenv("RADARR_URL"); env != "" {
		config.Radarr.URL = env
	}
	if env := os.Getenv("RADARR_API_KEY"); env != "" {
		config.Radarr.APIKey = env
	}

	// Cleaner
	if env := os.Getenv("SWEEPARR__POLL_INTERVAL"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			config.Cleaner.PollInterval = v
		}
	}
	if env := os.Getenv("API_TIMEOUT"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			config.Cleaner.APITimeout = v
		}
	}
	if env := os.Getenv("STRIKE_COUNT"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			config.Cleaner.StrikeCount = v
		}
	}
	if env := os.Getenv("SWEEPARR__NO_PROGRESS_THRESHOLD"); env != "" {
		if v, err := strconv.ParseInt(env, 10, 64); err == nil {
			config.Cleaner.NoProgressThresholdBytes = v
		}
	}
	if env := os.Getenv("SWEEPARR__NO_PROGRESS_STRIKES"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			config.Cleaner.NoProgressStrikeCount = v
		}
	}
	if env := os.Getenv("SWEEPARR__MISSING_SEARCH_INTERVAL"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			config.Cleaner.MissingSearchInterval = v
		}
	}

	// Database
	if env := os.Getenv("SWEEPARR__DB_TYPE"); env != "" {
		config.Database.Type = env
	}
	if env := os.Getenv("SWEEPARR__DB_PATH"); env != "" {
		config.Database.Path = env
	}
	if env := os.Getenv("SWEEPARR__DB_HOST"); env != "" {
		config.Database.Host = env
	}
	if env := os.Getenv("SWEEPARR__DB_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil {
			config.Database.Port = port
		}
	}
	if env := os.Getenv("SWEEPARR__DB_USER"); env != "" {
		config.Database.User = env
	}
	if env := os.Getenv("SWEEPARR__DB_PASSWORD"); env != "" {
		config.Database.Password = env
	}
	if env := os.Getenv("SWEEPARR__DB_NAME"); env != "" {
		config.Database.Name = env
	}

	// Discovery
	if env := os.Getenv("SWEEPARR__DISCOVERY"); env != "" {
		config.Discovery.Enabled = env == "true" || env == "1"
	}
	if env := os.Getenv("SWEEPARR__DISCOVERY_CONFIG"); env != "" {
		config.Discovery.ConfigFile = env
	}
}

// Validate checks that the configuration is runnable. A backend with a URL
// but no API key (or the reverse) is rejected outright; running without any
// backend at all is rejected as well.
func (c *Config) Validate() error {
	if !c.Sonarr.Configured() && !c.Radarr.Configured() {
		if c.Sonarr.URL != "" || c.Sonarr.APIKey != "" {
			return fmt.Errorf("sonarr: both url and api_key are required")
		}
		if c.Radarr.URL != "" || c.Radarr.APIKey != "" {
			return fmt.Errorf("radarr: both url and api_key are required")
		}
		return fmt.Errorf("no backend configured: set sonarr and/or radarr url and api_key")
	}
	if c.Sonarr.URL != "" && c.Sonarr.APIKey == "" {
		return fmt.Errorf("sonarr: api_key is required")
	}
	if c.Radarr.URL != "" && c.Radarr.APIKey == "" {
		return fmt.Errorf("radarr: api_key is required")
	}
	if c.Cleaner.PollInterval <= 0 {
		return fmt.Errorf("cleaner: poll_interval must be positive")
	}
	if c.Cleaner.APITimeout <= 0 {
		return fmt.Errorf("cleaner: api_timeout must be positive")
	}
	if c.Cleaner.StrikeCount <= 0 {
		return fmt.Errorf("cleaner: strike_count must be positive")
	}
	if c.Cleaner.NoProgressStrikeCount <= 0 {
		return fmt.Errorf("cleaner: no_progress_strike_count must be positive")
	}
	return nil
}
