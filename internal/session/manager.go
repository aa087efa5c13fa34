// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/newsdesk-tui/internal/api"
	"github.com/jeranaias/newsdesk-tui/internal/model"
	"github.com/jeranaias/newsdesk-tui/internal/storage"
)

// WelcomeText greets the user when the transcript is empty.
const WelcomeText = "Hello! I'm your news assistant. Ask me about current events and I'll answer with citations from recent coverage."

// ResetNoticeText confirms a conversation reset.
const ResetNoticeText = "Conversation cleared. What would you like to know?"

// ResetNoticeDelay is how long after a reset completes before the
// confirmation notice is shown. The pause keeps the clear visually
// distinct from the notice replacing it.
const ResetNoticeDelay = 500 * time.Millisecond

// Backend is the slice of the HTTP API the manager needs.
type Backend interface {
	CreateSession(ctx context.Context) (string, error)
	History(ctx context.Context, sessionID string) ([]api.HistoryEntry, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// Store is the slice of durable state the manager needs.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the session identifier lifecycle: restoring it from durable
// storage, creating one on first run, replacing it when the backend no
// longer recognizes it, and clearing server-side state on reset.
type Manager struct {
	backend Backend
	store   Store

	mu        sync.Mutex
	sessionID string
}

// NewManager creates a manager over the given backend and store.
func NewManager(backend Backend, store Store) *Manager {
	return &Manager{backend: backend, store: store}
}

// ID returns the current session identifier, or "" before Acquire.
func (m *Manager) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Acquire restores the persisted session identifier, or creates and
// persists a fresh one when none is stored.
func (m *Manager) Acquire(ctx context.Context) (string, error) {
	stored, ok, err := m.store.Get(storage.KeySessionID)
	if err != nil {
		return "", fmt.Errorf("failed to read stored session: %w", err)
	}
	if ok && stored != "" {
		m.setID(stored)
		return stored, nil
	}
	return m.create(ctx)
}

// Hydrate loads the session's server-side history as transcript messages,
// oldest first. A session the backend has forgotten is replaced with a
// fresh one and an empty transcript rather than surfacing an error.
func (m *Manager) Hydrate(ctx context.Context) ([]model.Message, error) {
	id := m.ID()
	if id == "" {
		return nil, errors.New("no session acquired")
	}

	history, err := m.backend.History(ctx, id)
	if errors.Is(err, api.ErrSessionNotFound) {
		if _, err := m.create(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(history))
	for _, entry := range history {
		sources := make([]model.Source, 0, len(entry.Sources))
		for _, s := range entry.Sources {
			sources = append(sources, model.Source{Title: s.Title, URL: s.URL})
		}
		messages = append(messages, model.FromHistory(entry.Role, entry.Content, sources, entry.Timestamp))
	}
	return messages, nil
}

// ClearServer drops the session's server-side state over HTTP. This is the
// reset path when no push channel is connected; with a channel, the clear
// request travels as a frame instead.
func (m *Manager) ClearServer(ctx context.Context) error {
	id := m.ID()
	if id == "" {
		return errors.New("no session acquired")
	}
	if err := m.backend.ClearSession(ctx, id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Welcome returns the greeting shown when the transcript is empty.
func (m *Manager) Welcome() model.Message {
	return model.NewNoticeMessage(WelcomeText)
}

// ResetNotice returns the confirmation shown after a reset.
func (m *Manager) ResetNotice() model.Message {
	return model.NewNoticeMessage(ResetNoticeText)
}

// create asks the backend for a new session and persists its identifier.
func (m *Manager) create(ctx context.Context) (string, error) {
	id, err := m.backend.CreateSession(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if err := m.store.Set(storage.KeySessionID, id); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}
	m.setID(id)
	return id, nil
}

func (m *Manager) setID(id string) {
	m.mu.Lock()
	m.sessionID = id
	m.mu.Unlock()
}
