// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/newsdesk-tui/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full interface.
func (m Model) View() string {
	if !m.ready {
		return "Starting newsdesk..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderTypingLine())
	b.WriteString("\n")
	if m.ctrl.HasError() {
		b.WriteString(m.renderErrorBox())
		b.WriteString("\n")
	}
	b.WriteString(m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("newsdesk")
	subtitle := m.theme.HeaderSubtitle.Render("news assistant")
	return m.theme.Header.Width(m.width).Render(title + " " + subtitle)
}

// renderTypingLine renders the composing indicator, or a pending spinner
// when a fallback reply is still in flight.
func (m Model) renderTypingLine() string {
	switch {
	case m.ctrl.Typing():
		return " " + m.spinner.View() + m.theme.TypingText.Render(" assistant is typing")
	case m.ctrl.Busy():
		text := " waiting for reply"
		if msgs := m.ctrl.Messages(); len(msgs) > 0 {
			if last := msgs[len(msgs)-1]; last.Role == model.RoleUser {
				text = fmt.Sprintf(" answering %q", last.Preview(32))
			}
		}
		return " " + m.spinner.View() + m.theme.TypingText.Render(text)
	}
	return ""
}

// renderErrorBox renders the single error slot.
func (m Model) renderErrorBox() string {
	content := m.theme.ErrorTitle.Render("Error: ") +
		m.theme.ErrorMessage.Render(m.ctrl.ErrorText()) + "\n" +
		m.theme.ErrorHint.Render("press esc to dismiss")
	return m.theme.ErrorBox.Width(m.width - 2).Render(content)
}

// renderStatusBar renders connection mode, shortcuts, and the status note.
func (m Model) renderStatusBar() string {
	var mode string
	if m.connected() {
		mode = m.theme.ModePush.Render("● live")
	} else {
		mode = m.theme.ModeFallback.Render("○ fallback")
	}

	shortcuts := strings.Join([]string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send"),
		m.theme.ShortcutKey.Render("ctrl+r") + m.theme.ShortcutDesc.Render(" reset"),
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	left := mode + "  " + shortcuts
	if m.statusNote != "" {
		note := truncate(m.statusNote, m.width/3)
		left += "  " + m.theme.ShortcutDesc.Render(note)
	}

	backend := truncate(m.client.BaseURL(), m.width/4)
	if gap := m.width - lipgloss.Width(left) - lipgloss.Width(backend) - 2; gap > 0 {
		left += strings.Repeat(" ", gap) + m.theme.ShortcutDesc.Render(backend)
	}
	return m.theme.StatusBar.Width(m.width).Render(left)
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport re-renders the transcript and follows the tail.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// renderTranscript renders all messages in order.
func (m Model) renderTranscript() string {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

// renderMessage renders one transcript entry with label, body, and
// citations.
func (m Model) renderMessage(msg model.Message) string {
	var label lipgloss.Style
	if msg.Role == model.RoleUser {
		label = m.theme.UserLabel
	} else {
		label = m.theme.AssistantLabel
	}

	header := label.Render(msg.Role.DisplayName())
	if m.cfg.UI.ShowTimestamps {
		header += " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	body := msg.Content
	if msg.Role == model.RoleAssistant && m.cfg.UI.Markdown && m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	out := header + "\n" + m.theme.MessageBody.Render(body)
	if m.cfg.UI.ShowSources && len(msg.Sources) > 0 {
		out += "\n" + m.renderSources(msg.Sources)
	}
	return out + "\n"
}

// renderSources renders citation footnotes.
func (m Model) renderSources(sources []model.Source) string {
	lines := make([]string, 0, len(sources))
	for i, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		line := fmt.Sprintf("[%d] %s", i+1, title)
		if s.URL != "" && s.Title != "" {
			line += " <" + s.URL + ">"
		}
		lines = append(lines, m.theme.SourceLine.Render(truncate(line, m.width-4)))
	}
	return strings.Join(lines, "\n")
}

// rebuildRenderer recreates the markdown renderer at the current width.
func (m *Model) rebuildRenderer() {
	if !m.cfg.UI.Markdown {
		return
	}
	wrap := m.width - 4
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Plain text rendering still works without it.
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

// truncate shortens s to fit max display cells.
func truncate(s string, max int) string {
	if max <= 0 || runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "...")
}
