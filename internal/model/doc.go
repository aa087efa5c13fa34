// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the transcript data model for newsdesk.
//
// A Transcript is an ordered, append-only sequence of Messages. Each
// Message carries a locally generated id, a role (user or assistant),
// the text content, optional citation Sources, and a timestamp. The
// transcript may only be reordered wholesale via ReplaceAll during
// history hydration; Clear is reserved for session reset.
//
// The package has no network awareness: mapping from wire shapes into
// Messages happens through FromHistory, and everything else is pure
// in-memory state.
package model
