// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the conversation session lifecycle.
//
// A session identifier names the server-side conversation state. The
// manager restores it from durable storage so a restarted client rejoins
// its previous conversation, creates one on first run, hydrates the
// transcript from server history, and replaces identifiers the backend
// has forgotten. It also carries the fallback reset path and the
// greeting and reset-notice copy.
package session
