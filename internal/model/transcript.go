// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Transcript is the ordered sequence of messages shown to the user.
// It is the single source of truth for rendering and is append-only:
// Append never reorders existing entries, ReplaceAll is reserved for
// history hydration, and Clear is reserved for session reset.
type Transcript struct {
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// ReplaceAll replaces the whole transcript with msgs, preserving their order.
// This is the only operation permitted to change historical order, and only
// hydration may use it.
func (t *Transcript) ReplaceAll(msgs []Message) {
	t.messages = make([]Message, len(msgs))
	copy(t.messages, msgs)
}

// Clear empties the transcript.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// IsEmpty returns true if the transcript holds no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// Last returns the most recent message, or false if the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
