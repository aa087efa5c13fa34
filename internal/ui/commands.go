// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/newsdesk-tui/internal/channel"
	"github.com/jeranaias/newsdesk-tui/internal/session"
)

// =============================================================================
// STARTUP COMMANDS
// =============================================================================

// acquireSession restores or creates the session identifier.
func (m *Model) acquireSession() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		id, err := m.session.Acquire(ctx)
		if err != nil {
			return SessionFailedMsg{Err: err}
		}
		return SessionReadyMsg{ID: id}
	}
}

// loadHistory hydrates the transcript from server history.
func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		messages, err := m.session.Hydrate(ctx)
		if err != nil {
			return HistoryFailedMsg{Err: err}
		}
		return HistoryLoadedMsg{Messages: messages}
	}
}

// dialChannel establishes the push connection. Failure is not fatal; the
// client stays on the fallback path.
func (m *Model) dialChannel() tea.Cmd {
	wsURL := m.cfg.Server.WebsocketURL
	sessionID := m.session.ID()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		ch, err := channel.Dial(ctx, wsURL, sessionID)
		if err != nil {
			return ChannelFailedMsg{Err: err}
		}
		return ChannelReadyMsg{Channel: ch}
	}
}

// =============================================================================
// CHANNEL COMMANDS
// =============================================================================

// waitForEvent blocks on the next push event. The update loop re-issues it
// after each delivery, so events are consumed one at a time in order. The
// message carries its connection so the loop can discard stragglers from a
// connection that has since been closed or replaced.
func waitForEvent(ch *channel.Channel) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch.Events()
		if !ok {
			return ChannelClosedMsg{Source: ch}
		}
		return ChannelEventMsg{Source: ch, Event: event}
	}
}

// =============================================================================
// FALLBACK COMMANDS
// =============================================================================

// sendFallback delivers a message over request/response HTTP.
func (m *Model) sendFallback(text string) tea.Cmd {
	sessionID := m.session.ID()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		reply, err := m.client.SendMessage(ctx, sessionID, text)
		if err != nil {
			return FallbackErrorMsg{Err: err}
		}
		return FallbackReplyMsg{Reply: reply}
	}
}

// clearFallback resets the conversation over request/response HTTP.
func (m *Model) clearFallback() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return ResetDoneMsg{Err: m.session.ClearServer(ctx)}
	}
}

// =============================================================================
// RESET COMMANDS
// =============================================================================

// scheduleResetNotice fires the confirmation notice after the post-reset
// pause.
func scheduleResetNotice() tea.Cmd {
	return tea.Tick(session.ResetNoticeDelay, func(time.Time) tea.Msg {
		return ResetNoticeMsg{}
	})
}

// requestContext builds a context bounded by the configured timeout.
func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
}
