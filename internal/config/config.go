// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for newsdesk.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. File location: ~/.newsdesk/config.toml (overridable with
// NEWSDESK_CONFIG).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/newsdesk-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete newsdesk configuration.
type Config struct {
	Version string `toml:"version"`

	// Server configuration
	Server ServerConfig `toml:"server"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ServerConfig describes how to reach the news assistant backend.
type ServerConfig struct {
	// BaseURL is the HTTP base URL of the backend (fallback path and
	// session endpoints), e.g. "http://localhost:5000".
	BaseURL string `toml:"base_url"`
	// WebsocketURL is the push channel endpoint. When empty it is derived
	// from BaseURL by swapping the scheme (http->ws, https->wss) and
	// appending /ws.
	WebsocketURL string `toml:"websocket_url"`
	// RequestTimeoutSecs bounds each fallback HTTP call. Default: 60.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
	// MaxRetries is the retry budget for transient HTTP failures. Default: 3.
	MaxRetries int `toml:"max_retries"`
}

// StorageConfig controls local persistence.
type StorageConfig struct {
	// Path is the sqlite database file holding client state (the persisted
	// session id). Empty means ~/.newsdesk/state.db.
	Path string `toml:"path"`
}

// UIConfig contains presentation options.
type UIConfig struct {
	// Markdown enables glamour rendering of assistant messages.
	Markdown bool `toml:"markdown"`
	// ShowSources toggles citation footnotes under assistant messages.
	ShowSources bool `toml:"show_sources"`
	// ShowTimestamps toggles per-message timestamps.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			BaseURL:            "http://localhost:5000",
			RequestTimeoutSecs: 60,
			MaxRetries:         3,
		},
		UI: UIConfig{
			Markdown:       true,
			ShowSources:    true,
			ShowTimestamps: false,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies environment overrides, and
// validates the result. A missing file is not an error: defaults are used.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPath returns the configuration file location.
func DefaultPath() string {
	if p := os.Getenv("NEWSDESK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(BaseDir(), "config.toml")
}

// BaseDir returns the newsdesk state directory (~/.newsdesk).
func BaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".newsdesk"
	}
	return filepath.Join(home, ".newsdesk")
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEWSDESK_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("NEWSDESK_WS_URL"); v != "" {
		cfg.Server.WebsocketURL = v
	}
	if v := os.Getenv("NEWSDESK_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for consistency and fills derived fields.
func (c *Config) Validate() error {
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url must not be empty")
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url %q is not a valid http(s) URL", c.Server.BaseURL)
	}

	if c.Server.WebsocketURL == "" {
		c.Server.WebsocketURL = deriveWebsocketURL(u)
	} else {
		wu, err := url.Parse(c.Server.WebsocketURL)
		if err != nil || (wu.Scheme != "ws" && wu.Scheme != "wss") || wu.Host == "" {
			return fmt.Errorf("server.websocket_url %q is not a valid ws(s) URL", c.Server.WebsocketURL)
		}
	}

	if c.Server.RequestTimeoutSecs <= 0 {
		c.Server.RequestTimeoutSecs = 60
	}
	if c.Server.MaxRetries < 0 {
		c.Server.MaxRetries = 0
	}

	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(BaseDir(), "state.db")
	}

	return nil
}

// deriveWebsocketURL maps the HTTP base URL onto the push channel endpoint.
func deriveWebsocketURL(base *url.URL) string {
	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	return scheme + "://" + base.Host + "/ws"
}

// RequestTimeout returns the per-call timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSecs) * time.Second
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to its default path atomically.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the configuration to an explicit path atomically.
func (c *Config) SaveTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}
