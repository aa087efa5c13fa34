// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the transcript and its messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a citation attached to an assistant message.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in the transcript.
// ID and Role are fixed at creation and never change afterwards.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a new message with a generated ID and current timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message with citation sources.
// A zero ts falls back to the local clock.
func NewAssistantMessage(content string, sources []Source, ts time.Time) Message {
	if ts.IsZero() {
		ts = time.Now()
	}
	return Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Content:   content,
		Sources:   sources,
		Timestamp: ts,
	}
}

// NewNoticeMessage creates a synthetic assistant message produced locally,
// such as the first-run welcome or the post-reset notice. It never involves
// a backend round trip.
func NewNoticeMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// WIRE MAPPING
// =============================================================================

// FromHistory maps a server history entry into a Message. The server reports
// timestamps as epoch milliseconds; roles other than "user" map to assistant.
func FromHistory(role, content string, sources []Source, epochMillis int64) Message {
	r := RoleAssistant
	if role == string(RoleUser) {
		r = RoleUser
	}
	return Message{
		ID:        generateID(),
		Role:      r,
		Content:   content,
		Sources:   sources,
		Timestamp: time.UnixMilli(epochMillis),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
