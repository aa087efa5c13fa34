// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package channel implements the websocket push connection to the news
// assistant backend.
//
// The channel is the preferred delivery path: outbound chat messages and
// clear requests are emitted as JSON frames, and bot replies, typing
// notifications, clear confirmations, and server errors arrive as inbound
// frames on a single ordered stream. A lone reader goroutine decodes
// frames and forwards them on Events(), so consumers observe events in
// exactly the order the server sent them.
//
// When the connection drops (or never establishes), Connected() reports
// false and the client degrades to the request/response path in
// internal/api.
package channel
