// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal interface for newsdesk.
//
// This file defines all Bubble Tea message types used by the chat
// interface. Messages are organized into the following categories:
//   - Startup: Session acquisition, history hydration, channel dial
//   - Channel: Inbound push events and connection teardown
//   - Fallback: Request/response delivery results
//   - Reset: Conversation clearing and the delayed notice
//
// All message types follow Bubble Tea conventions and are immutable.
package ui

import (
	"github.com/jeranaias/newsdesk-tui/internal/api"
	"github.com/jeranaias/newsdesk-tui/internal/channel"
	"github.com/jeranaias/newsdesk-tui/internal/model"
)

// =============================================================================
// STARTUP MESSAGES
// =============================================================================

// SessionReadyMsg reports the acquired session identifier.
type SessionReadyMsg struct {
	ID string
}

// SessionFailedMsg reports that no session could be acquired.
type SessionFailedMsg struct {
	Err error
}

// HistoryLoadedMsg delivers the hydrated transcript, oldest first.
type HistoryLoadedMsg struct {
	Messages []model.Message
}

// HistoryFailedMsg reports a hydration failure.
type HistoryFailedMsg struct {
	Err error
}

// ChannelReadyMsg reports an established push channel.
type ChannelReadyMsg struct {
	Channel *channel.Channel
}

// ChannelFailedMsg reports that the push channel could not be
// established. The client continues in fallback mode.
type ChannelFailedMsg struct {
	Err error
}

// =============================================================================
// CHANNEL MESSAGES
// =============================================================================

// ChannelEventMsg delivers one inbound push event in arrival order.
// Source identifies the connection it came from, so events from a
// closed or replaced connection can be dropped.
type ChannelEventMsg struct {
	Source *channel.Channel
	Event  channel.Event
}

// ChannelClosedMsg signals that the push connection tore down. Source
// identifies the connection, so a stale teardown does not clobber a
// replacement connection.
type ChannelClosedMsg struct {
	Source *channel.Channel
}

// =============================================================================
// FALLBACK MESSAGES
// =============================================================================

// FallbackReplyMsg delivers the reply of a request/response send.
type FallbackReplyMsg struct {
	Reply *api.ChatReply
}

// FallbackErrorMsg reports a failed request/response send.
type FallbackErrorMsg struct {
	Err error
}

// =============================================================================
// RESET MESSAGES
// =============================================================================

// ResetDoneMsg reports the outcome of a fallback reset. With a push
// channel the confirmation arrives as a session-cleared event instead.
type ResetDoneMsg struct {
	Err error
}

// ResetNoticeMsg fires after the post-reset delay to show the
// confirmation notice.
type ResetNoticeMsg struct{}
