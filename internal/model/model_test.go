// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestMessageIDsAreUnique(t *testing.T) {
	a := NewUserMessage("a")
	b := NewUserMessage("b")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewAssistantMessage(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	sources := []Source{{Title: "Reuters", URL: "https://example.com/1"}}

	msg := NewAssistantMessage("answer", sources, ts)

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, sources, msg.Sources)
}

func TestNewAssistantMessageZeroTimestamp(t *testing.T) {
	msg := NewAssistantMessage("answer", nil, time.Time{})
	assert.False(t, msg.Timestamp.IsZero())
}

func TestNewNoticeMessage(t *testing.T) {
	msg := NewNoticeMessage("Session has been reset.")
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Empty(t, msg.Sources)
}

func TestRoleDisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Assistant", RoleAssistant.DisplayName())
	assert.Equal(t, "other", Role("other").DisplayName())
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("hello world")
	assert.Equal(t, "hello world", msg.Preview(20))
	assert.Equal(t, "hell...", msg.Preview(7))

	// Unicode-safe truncation
	uni := NewUserMessage("héllo wörld, ünïcode")
	preview := uni.Preview(10)
	assert.LessOrEqual(t, len([]rune(preview)), 10)
}

func TestFromHistory(t *testing.T) {
	msg := FromHistory("user", "hi", nil, 1)
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hi", msg.Content)
	assert.Equal(t, time.UnixMilli(1), msg.Timestamp)

	bot := FromHistory("assistant", "hello", []Source{}, 2)
	assert.Equal(t, RoleAssistant, bot.Role)

	// Unknown roles map to assistant
	other := FromHistory("system", "x", nil, 3)
	assert.Equal(t, RoleAssistant, other.Role)
}

func TestTranscriptAppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()

	for _, content := range []string{"one", "two", "three"} {
		tr.Append(NewUserMessage(content))
	}

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
}

func TestTranscriptReplaceAll(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("stale"))

	history := []Message{
		FromHistory("user", "hi", nil, 1),
		FromHistory("assistant", "hello", []Source{}, 2),
	}
	tr.ReplaceAll(history)

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestTranscriptReplaceAllCopiesInput(t *testing.T) {
	src := []Message{NewUserMessage("a")}
	tr := NewTranscript()
	tr.ReplaceAll(src)

	src[0].Content = "mutated"
	assert.Equal(t, "a", tr.Messages()[0].Content)
}

func TestTranscriptClear(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("a"))
	tr.Append(NewNoticeMessage("b"))

	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	assert.True(t, tr.IsEmpty())
	assert.Empty(t, tr.Messages())
}

func TestTranscriptLast(t *testing.T) {
	tr := NewTranscript()

	_, ok := tr.Last()
	assert.False(t, ok)

	tr.Append(NewUserMessage("first"))
	tr.Append(NewUserMessage("second"))

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "second", last.Content)
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("a"))

	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "a", tr.Messages()[0].Content)
}
