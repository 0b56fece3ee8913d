// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/research"
	"github.com/shahryar908/agentify-sub000/internal/ui/components"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the TUI for the current state.
func (m Model) View() string {
	switch m.state {
	case StateWelcome:
		return m.viewWelcome()
	case StateResearch:
		return m.viewResearch()
	case StateError:
		return m.viewError()
	default:
		return m.viewChat()
	}
}

func (m Model) viewWelcome() string {
	// Reserve the bottom rows for input and status so the user can start
	// typing straight from the landing screen.
	m.welcome.SetSize(m.width, m.height-4)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.welcome.View(),
		m.renderInput(),
		m.statusBar.View(),
	)
}

func (m Model) viewChat() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderSpinnerLine(),
		m.renderInput(),
		m.statusBar.View(),
	)
}

func (m Model) viewResearch() string {
	var body strings.Builder

	title := "Research"
	if m.lastTopic != "" {
		title = "Research: " + m.lastTopic
	}
	body.WriteString(m.theme.Title.Render(title))
	body.WriteString("\n\n")

	if m.tracker == nil {
		body.WriteString(m.theme.InfoText.Render("Enter a topic to start the research pipeline."))
	} else {
		stepList := components.NewStepList(m.tracker, m.theme)
		stepList.SetWidth(m.width)
		body.WriteString(stepList.View())

		if m.tracker.Outcome == research.OutcomeSuccess && m.tracker.Paper != nil {
			p := m.tracker.Paper
			body.WriteString("\n\n")
			body.WriteString(components.PaperCard(p.Title, p.Abstract, p.DownloadRef, m.theme, m.width))
		}
	}

	content := lipgloss.NewStyle().Padding(1, 2).Render(body.String())

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		m.renderSpinnerLine(),
		m.renderInput(),
		m.statusBar.View(),
	)
}

func (m Model) viewError() string {
	banner := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center,
		m.errorBanner.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		banner,
		m.statusBar.View(),
	)
}

// renderInput renders the input field in its frame.
func (m Model) renderInput() string {
	return m.theme.InputFrame.Width(m.width - 2).Render(m.input.View())
}

// renderSpinnerLine renders the thinking spinner, or an empty line to keep
// the layout stable.
func (m Model) renderSpinnerLine() string {
	if view := m.spinner.View(); view != "" {
		return " " + view
	}
	return ""
}

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// refreshViewport re-renders the conversation into the viewport and keeps
// it pinned to the bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m *Model) renderConversation() string {
	msgs := m.conversation.Messages
	if len(msgs) == 0 {
		return m.theme.InfoText.Render("No messages yet.")
	}

	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	view := components.NewMessageView(msg, m.theme)
	view.SetWidth(m.width)
	return view.View()
}
