// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeranaias/newsdesk-tui/internal/model"
)

// Configuration constants for the push channel.
const (
	// handshakeTimeout bounds the websocket dial.
	handshakeTimeout = 10 * time.Second

	// writeTimeout bounds a single frame write.
	writeTimeout = 10 * time.Second

	// eventBuffer is the capacity of the inbound event queue. The reader
	// goroutine blocks rather than dropping events when the queue is full,
	// so ordering is preserved under backpressure.
	eventBuffer = 32

	// maxFrameSize is the maximum inbound frame size.
	maxFrameSize = 1 * 1024 * 1024 // 1MB
)

// ErrNotConnected is returned when writing on a torn-down channel.
var ErrNotConnected = errors.New("channel not connected")

// =============================================================================
// WIRE FRAMES
// =============================================================================

// frame is the JSON envelope for both directions. Only the fields relevant
// to each event type are populated.
type frame struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId,omitempty"`
	Message   string         `json:"message,omitempty"`
	Response  string         `json:"response,omitempty"`
	Sources   []model.Source `json:"sources,omitempty"`
	Typing    bool           `json:"typing,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Wire event names.
const (
	typeJoinSession    = "join-session"
	typeSendMessage    = "send-message"
	typeClearSession   = "clear-session"
	typeBotResponse    = "bot-response"
	typeBotTyping      = "bot-typing"
	typeSessionCleared = "session-cleared"
	typeError          = "error"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies an inbound push event.
type EventKind int

// Inbound event kinds.
const (
	EventBotReply EventKind = iota
	EventTyping
	EventSessionCleared
	EventError
)

// Event is one inbound push event, delivered in arrival order.
type Event struct {
	Kind    EventKind
	Reply   string
	Sources []model.Source
	Typing  bool
	Err     string
}

// =============================================================================
// CHANNEL
// =============================================================================

// Channel is a bidirectional push connection to the backend. Inbound events
// are decoded by a single reader goroutine and delivered in arrival order on
// Events(). After Close, the reader is torn down, Events() is closed, and no
// further events are delivered.
type Channel struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	connected atomic.Bool
}

// Dial connects to the push endpoint at url and announces sessionID so the
// backend routes this session's events to the new connection.
func Dial(ctx context.Context, url, sessionID string) (*Channel, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to connect to %s (HTTP %d): %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	conn.SetReadLimit(maxFrameSize)

	ch := &Channel{
		conn:   conn,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	ch.connected.Store(true)

	if err := ch.write(frame{Type: typeJoinSession, SessionID: sessionID}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	go ch.readLoop()
	return ch, nil
}

// Events returns the inbound event stream. The channel is closed when the
// connection tears down; a closed stream with Connected() false means the
// client should fall back to request/response delivery.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Connected reports whether the push connection is currently usable.
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// Send emits a chat message over the push channel. The reply will arrive
// later as an EventBotReply on Events().
func (c *Channel) Send(sessionID, text string) error {
	return c.write(frame{Type: typeSendMessage, SessionID: sessionID, Message: text})
}

// Clear asks the backend to drop the session's server-side state. The
// confirmation arrives as an EventSessionCleared on Events().
func (c *Channel) Clear(sessionID string) error {
	return c.write(frame{Type: typeClearSession, SessionID: sessionID})
}

// Close tears down the connection. Idempotent. Events already queued are
// still readable; nothing new is delivered after the stream closes.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.connected.Store(false)
		close(c.done)

		// Best-effort close frame so the server can clean up promptly.
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}

// write serializes frame writes. Gorilla connections allow one concurrent
// writer, so every outbound frame goes through this mutex.
func (c *Channel) write(f frame) error {
	if !c.connected.Load() {
		return ErrNotConnected
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// readLoop decodes inbound frames and forwards them in order. It exits on
// read error or teardown, marks the channel disconnected, and closes the
// event stream.
func (c *Channel) readLoop() {
	defer func() {
		c.connected.Store(false)
		close(c.events)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			// Malformed frame. Skip it rather than killing the stream.
			continue
		}

		event, ok := decodeEvent(f)
		if !ok {
			continue
		}

		select {
		case c.events <- event:
		case <-c.done:
			return
		}
	}
}

// decodeEvent maps a wire frame onto an Event. Unknown types are dropped.
func decodeEvent(f frame) (Event, bool) {
	switch f.Type {
	case typeBotResponse:
		return Event{Kind: EventBotReply, Reply: f.Response, Sources: f.Sources}, true
	case typeBotTyping:
		return Event{Kind: EventTyping, Typing: f.Typing}, true
	case typeSessionCleared:
		return Event{Kind: EventSessionCleared}, true
	case typeError:
		return Event{Kind: EventError, Err: f.Error}, true
	}
	return Event{}, false
}
