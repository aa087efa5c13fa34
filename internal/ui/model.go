// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/newsdesk-tui/internal/api"
	"github.com/jeranaias/newsdesk-tui/internal/channel"
	"github.com/jeranaias/newsdesk-tui/internal/config"
	"github.com/jeranaias/newsdesk-tui/internal/controller"
	"github.com/jeranaias/newsdesk-tui/internal/model"
	"github.com/jeranaias/newsdesk-tui/internal/session"
	"github.com/jeranaias/newsdesk-tui/internal/ui/styles"
)

// inputCharLimit caps a single outbound message.
const inputCharLimit = 4096

// =============================================================================
// UI MODEL
// =============================================================================

// Model is the Bubble Tea model for the newsdesk client. Every event,
// whether a keypress, a push frame, or a fallback response, arrives here
// one at a time, which is what keeps the transcript ordering deterministic.
type Model struct {
	// Styling
	theme *styles.Theme

	// Configuration
	cfg *config.Config

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation state machine
	ctrl *controller.Controller

	// Backends
	session *session.Manager
	client  *api.Client
	channel *channel.Channel

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Session id the channel joined with, to detect replacement
	sessionID string

	// Markdown rendering
	renderer *glamour.TermRenderer

	// Status line note, shown until the next state change
	statusNote string
}

// New creates the top-level UI model.
func New(cfg *config.Config, client *api.Client, mgr *session.Manager, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the news..."
	ti.CharLimit = inputCharLimit
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:   theme,
		cfg:     cfg,
		ctrl:    controller.New(),
		session: mgr,
		client:  client,
		input:   ti,
		spinner: sp,
	}
}

// Init starts session acquisition and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.acquireSession(), m.spinner.Tick, textinput.Blink)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Startup
	case SessionReadyMsg:
		m.sessionID = msg.ID
		return m, tea.Batch(m.loadHistory(), m.dialChannel())

	case SessionFailedMsg:
		m.ctrl.ApplyError(humanize(msg.Err))
		return m, nil

	case HistoryLoadedMsg:
		m.ctrl.SetHistory(msg.Messages, m.session.Welcome())
		m.refreshViewport()
		// Hydration may have replaced a session the backend forgot.
		// The channel joined with the stale id, so rejoin with the new one.
		if id := m.session.ID(); id != m.sessionID {
			m.sessionID = id
			if m.channel != nil {
				m.channel.Close()
				m.channel = nil
			}
			return m, m.dialChannel()
		}
		return m, nil

	case HistoryFailedMsg:
		// History loss is not fatal. Start from the welcome message and
		// keep the conversation usable.
		m.ctrl.SetHistory(nil, m.session.Welcome())
		m.statusNote = "history unavailable"
		m.refreshViewport()
		return m, nil

	case ChannelReadyMsg:
		m.channel = msg.Channel
		m.statusNote = ""
		return m, waitForEvent(m.channel)

	case ChannelFailedMsg:
		m.statusNote = "live updates unavailable"
		return m, nil

	// Push events
	case ChannelEventMsg:
		// A still-armed wait can deliver after its connection was closed
		// or replaced. Stale events must not be applied or re-armed.
		if m.channel == nil || msg.Source != m.channel {
			return m, nil
		}
		return m.handleChannelEvent(msg.Event)

	case ChannelClosedMsg:
		if msg.Source != m.channel {
			return m, nil
		}
		m.channel = nil
		m.statusNote = "connection lost"
		return m, nil

	// Fallback delivery
	case FallbackReplyMsg:
		m.ctrl.ApplyBotReply(msg.Reply.Response, toModelSources(msg.Reply.Sources))
		m.refreshViewport()
		return m, nil

	case FallbackErrorMsg:
		m.ctrl.ApplyError(humanize(msg.Err))
		return m, nil

	// Reset
	case ResetDoneMsg:
		if msg.Err != nil {
			m.ctrl.ApplyError(humanize(msg.Err))
			return m, nil
		}
		m.ctrl.ApplySessionCleared()
		m.refreshViewport()
		return m, scheduleResetNotice()

	case ResetNoticeMsg:
		m.ctrl.ApplyResetNotice(m.session.ResetNotice())
		m.refreshViewport()
		return m, nil
	}

	return m.updateComponents(msg)
}

// handleChannelEvent applies one inbound push event, then re-arms the
// event wait so the next one is consumed in order.
func (m Model) handleChannelEvent(event channel.Event) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch event.Kind {
	case channel.EventBotReply:
		m.ctrl.ApplyBotReply(event.Reply, event.Sources)
		m.refreshViewport()

	case channel.EventTyping:
		m.ctrl.ApplyTyping(event.Typing)

	case channel.EventSessionCleared:
		m.ctrl.ApplySessionCleared()
		m.refreshViewport()
		cmd = scheduleResetNotice()

	case channel.EventError:
		m.ctrl.ApplyError(event.Err)
	}

	return m, tea.Batch(waitForEvent(m.channel), cmd)
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.channel != nil {
			m.channel.Close()
		}
		return m, tea.Quit

	case "esc":
		if m.ctrl.HasError() {
			m.ctrl.ClearError()
			return m, nil
		}
		return m, nil

	case "enter":
		return m.handleSubmit()

	case "ctrl+r":
		return m.handleReset()
	}

	return m.updateComponents(msg)
}

// handleSubmit validates and dispatches the typed message.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.session.ID() == "" {
		return m, nil
	}

	echo, route, err := m.ctrl.Send(m.input.Value(), m.connected())
	if errors.Is(err, controller.ErrEmptyMessage) || errors.Is(err, controller.ErrBusy) {
		return m, nil
	}

	m.input.Reset()
	m.refreshViewport()

	if route == controller.RoutePush {
		if err := m.channel.Send(m.session.ID(), echo.Content); err != nil {
			// Push write failed mid-send. Retry over HTTP instead of
			// surfacing an error for a message we already echoed.
			return m, m.sendFallback(echo.Content)
		}
		return m, nil
	}
	return m, m.sendFallback(echo.Content)
}

// handleReset dispatches a conversation reset over the active route. With
// a push channel the clear is fire-and-forget; the transcript empties when
// the confirmation event arrives.
func (m Model) handleReset() (tea.Model, tea.Cmd) {
	if m.session.ID() == "" || m.ctrl.Busy() {
		return m, nil
	}

	if m.connected() {
		if err := m.channel.Clear(m.session.ID()); err == nil {
			return m, nil
		}
	}
	m.ctrl.BeginReset()
	return m, m.clearFallback()
}

// handleResize recalculates the layout.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 1
	footerHeight := 4 // typing line, input container, status bar
	viewportHeight := msg.Height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = msg.Width - 4

	m.rebuildRenderer()
	m.refreshViewport()
	return m, nil
}

// updateComponents forwards a message to the focused components.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// connected reports whether the push channel is usable right now.
func (m Model) connected() bool {
	return m.channel != nil && m.channel.Connected()
}

// toModelSources converts wire citations to transcript citations.
func toModelSources(in []api.Source) []model.Source {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Source, 0, len(in))
	for _, s := range in {
		out = append(out, model.Source{Title: s.Title, URL: s.URL})
	}
	return out
}

// humanize maps transport errors onto user-facing copy.
func humanize(err error) string {
	switch {
	case errors.Is(err, api.ErrServerUnavailable):
		return "Could not reach the news service. Check your connection and try again."
	case errors.Is(err, api.ErrRateLimited):
		return "You're sending messages too quickly. Give it a moment."
	case errors.Is(err, api.ErrSessionNotFound):
		return "Your session expired. Reset the conversation to start fresh."
	case err != nil:
		return err.Error()
	}
	return ""
}
