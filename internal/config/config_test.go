// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:5000", cfg.Server.BaseURL)
	assert.Equal(t, "ws://localhost:5000/ws", cfg.Server.WebsocketURL)
	assert.Equal(t, 60, cfg.Server.RequestTimeoutSecs)
	assert.Equal(t, 3, cfg.Server.MaxRetries)
	assert.True(t, cfg.UI.Markdown)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.Server.BaseURL)
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[server]
base_url = "https://news.example.com"
request_timeout_secs = 10
max_retries = 1

[ui]
markdown = false
show_sources = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://news.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "wss://news.example.com/ws", cfg.Server.WebsocketURL)
	assert.Equal(t, 10, cfg.Server.RequestTimeoutSecs)
	assert.Equal(t, 1, cfg.Server.MaxRetries)
	assert.False(t, cfg.UI.Markdown)
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[[not toml"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("NEWSDESK_SERVER_URL", "http://10.0.0.1:8080")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.1:8080", cfg.Server.BaseURL)
	assert.Equal(t, "ws://10.0.0.1:8080/ws", cfg.Server.WebsocketURL)
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Server.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadWebsocketURL(t *testing.T) {
	cfg := Default()
	cfg.Server.WebsocketURL = "http://wrong-scheme"
	assert.Error(t, cfg.Validate())
}

func TestValidateTrimsTrailingSlash(t *testing.T) {
	cfg := Default()
	cfg.Server.BaseURL = "http://localhost:5000/"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:5000", cfg.Server.BaseURL)
}

func TestValidateClampsTimeout(t *testing.T) {
	cfg := Default()
	cfg.Server.RequestTimeoutSecs = -5
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Server.RequestTimeoutSecs)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "http://saved.example.com"
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example.com", loaded.Server.BaseURL)
}
