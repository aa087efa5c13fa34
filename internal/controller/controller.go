// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/jeranaias/newsdesk-tui/internal/model"
)

// Error variables for rejected operations.
var (
	// ErrEmptyMessage indicates a blank or whitespace-only submission.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy indicates a send while a reply is still pending.
	ErrBusy = errors.New("a reply is already pending")
)

// Route names the delivery path chosen for an accepted send.
type Route int

const (
	// RoutePush delivers over the websocket channel; the reply arrives
	// later as a push event.
	RoutePush Route = iota

	// RouteFallback delivers over request/response HTTP; the reply arrives
	// in the response body.
	RouteFallback
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the conversation state machine: the ordered transcript, the
// pending-reply flag, the typing indicator, and the single error slot. It
// performs no I/O. Callers apply one event at a time, matching the
// sequential delivery of the update loop, so every transition is atomic
// from the caller's point of view.
type Controller struct {
	transcript *model.Transcript
	busy       bool
	typing     bool
	errText    string
}

// New creates a controller with an empty transcript.
func New() *Controller {
	return &Controller{transcript: model.NewTranscript()}
}

// SetHistory replaces the transcript with hydrated history. An empty
// history gets the welcome message so the view never starts blank.
func (c *Controller) SetHistory(messages []model.Message, welcome model.Message) {
	if len(messages) == 0 {
		c.transcript.ReplaceAll([]model.Message{welcome})
		return
	}
	c.transcript.ReplaceAll(messages)
}

// Send validates and accepts an outbound message. On acceptance the user's
// message is echoed into the transcript immediately, the pending flag is
// raised, the error slot is cleared, and the chosen route is returned. The
// echo stays in the transcript whether or not delivery later fails.
func (c *Controller) Send(text string, connected bool) (model.Message, Route, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Message{}, RouteFallback, ErrEmptyMessage
	}
	if c.busy {
		return model.Message{}, RouteFallback, ErrBusy
	}

	echo := model.NewUserMessage(trimmed)
	c.transcript.Append(echo)
	c.busy = true
	c.errText = ""

	if connected {
		return echo, RoutePush, nil
	}
	return echo, RouteFallback, nil
}

// ApplyBotReply appends an assistant reply and settles the pending state.
// Replies arriving outside a pending send (late, duplicated, or after a
// reset) are still appended; the transcript is append-only between resets.
func (c *Controller) ApplyBotReply(content string, sources []model.Source) model.Message {
	reply := model.NewAssistantMessage(content, sources, time.Time{})
	c.transcript.Append(reply)
	c.busy = false
	c.typing = false
	return reply
}

// BeginReset raises the pending flag while a blocking reset call is in
// flight, so sends are rejected until ApplySessionCleared or ApplyError
// settles it. The fire-and-forget push clear does not need this.
func (c *Controller) BeginReset() {
	c.busy = true
	c.errText = ""
}

// ApplyTyping updates the typing indicator from a push notification.
func (c *Controller) ApplyTyping(on bool) {
	c.typing = on
}

// ApplySessionCleared empties the transcript and settles all transient
// state. It handles both the push confirmation and the fallback reset.
func (c *Controller) ApplySessionCleared() {
	c.transcript.Clear()
	c.busy = false
	c.typing = false
	c.errText = ""
}

// ApplyResetNotice appends the post-reset confirmation message. It is
// applied on a delay after the clear, so a message the user managed to
// send in between simply precedes the notice.
func (c *Controller) ApplyResetNotice(notice model.Message) {
	c.transcript.Append(notice)
}

// ApplyError fills the error slot and settles the pending state. The slot
// holds one error; a newer one overwrites an undismissed older one.
func (c *Controller) ApplyError(text string) {
	if text == "" {
		text = "Something went wrong. Please try again."
	}
	c.errText = text
	c.busy = false
	c.typing = false
}

// ClearError dismisses the error slot.
func (c *Controller) ClearError() {
	c.errText = ""
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns the transcript in order.
func (c *Controller) Messages() []model.Message {
	return c.transcript.Messages()
}

// Len returns the transcript length.
func (c *Controller) Len() int {
	return c.transcript.Len()
}

// Busy reports whether a reply is pending.
func (c *Controller) Busy() bool {
	return c.busy
}

// Typing reports whether the assistant is composing.
func (c *Controller) Typing() bool {
	return c.typing
}

// ErrorText returns the current error slot, or "" when clear.
func (c *Controller) ErrorText() string {
	return c.errText
}

// HasError reports whether the error slot is occupied.
func (c *Controller) HasError() bool {
	return c.errText != ""
}
