// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists client state across restarts.
//
// The store is a small key/value table in a SQLite database under the
// newsdesk state directory. Its one required key is the session
// identifier, read at startup and written when a session is first
// created. The contract is get/set/remove; callers treat it as
// read-then-write, not transactional.
package storage
