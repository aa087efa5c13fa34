// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates newsdesk configuration.
//
// Precedence, highest first:
//   - environment variables (NEWSDESK_SERVER_URL, NEWSDESK_WS_URL,
//     NEWSDESK_STORAGE_PATH)
//   - ~/.newsdesk/config.toml (or NEWSDESK_CONFIG)
//   - built-in defaults
//
// The websocket endpoint is derived from the HTTP base URL unless set
// explicitly, so a minimal config only names the server once.
package config
