// Package config loads the client configuration: where the backend lives and
// where local state (session, snapshot cache) is kept.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides the configured backend base URL.
const EnvAPIURL = "TRADELOG_API_URL"

// Config is the complete client configuration.
type Config struct {
	API   APIConfig   `json:"api" yaml:"api"`
	State StateConfig `json:"state" yaml:"state"`
	Log   LogConfig   `json:"log" yaml:"log"`
}

// APIConfig selects the backend and the per-request timeout.
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"
}

// StateConfig locates the local state directory holding the session and
// cache databases.
type StateConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// ParseTimeout converts the timeout string to a duration, defaulting to 30s.
func (a APIConfig) ParseTimeout() (time.Duration, error) {
	if a.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(a.Timeout)
}

// SessionPath is the session database location under the state dir.
func (c *Config) SessionPath() string {
	return filepath.Join(c.State.Dir, "session.db")
}

// CachePath is the snapshot cache location under the state dir.
func (c *Config) CachePath() string {
	return filepath.Join(c.State.Dir, "cache.db")
}

// LoadFromFile loads configuration from a YAML or JSON file, applies the
// environment override and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load returns the config at path when it exists, or the defaults (with the
// environment override applied) when it does not.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromFile(path)
}

// SaveToFile writes the configuration, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if url := os.Getenv(EnvAPIURL); url != "" {
		c.API.BaseURL = url
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if _, err := c.API.ParseTimeout(); err != nil {
		return fmt.Errorf("api.timeout: %w", err)
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with sensible defaults. State lives under
// the user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "30s",
		},
		State: StateConfig{
			Dir: filepath.Join(home, ".tradelog"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
