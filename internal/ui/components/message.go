// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW COMPONENT
// =============================================================================

// MessageView renders a single chat message with its role label, timestamp,
// and an optional tools badge for agent responses.
type MessageView struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageView creates a message view for the given message.
func NewMessageView(msg *model.Message, theme *styles.Theme) *MessageView {
	if msg == nil {
		msg = model.NewSystemMessage("")
	}
	return &MessageView{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the rendering width.
func (v *MessageView) SetWidth(width int) {
	v.Width = width
}

// View renders the message.
func (v *MessageView) View() string {
	switch v.Message.Role {
	case model.RoleUser:
		return v.renderUser()
	case model.RoleAgent:
		return v.renderAgent()
	default:
		return v.renderSystem()
	}
}

// renderUser renders a user message with a right-leaning label line.
func (v *MessageView) renderUser() string {
	header := v.theme.UserLabel.Render(model.RoleUser.DisplayName())
	if v.ShowTimestamp {
		header += " " + v.theme.Timestamp.Render(v.Message.Timestamp.Format("15:04"))
	}

	body := v.theme.Body.Render(wordWrap(v.Message.GetDisplayContent(), v.contentWidth()))
	return header + "\n" + body
}

// renderAgent renders an agent message with markdown code blocks highlighted
// and a badge when the backend reported tool usage.
func (v *MessageView) renderAgent() string {
	header := v.theme.AgentLabel.Render(model.RoleAgent.DisplayName())
	if v.Message.ToolsUsed {
		header += " " + v.theme.ToolsBadge.Render("Tools Used")
	}
	if v.ShowTimestamp {
		header += " " + v.theme.Timestamp.Render(v.Message.Timestamp.Format("15:04"))
	}

	content := v.Message.GetDisplayContent()
	if v.Message.IsStreaming && content == "" {
		content = "..."
	}

	rendered := RenderMarkdownBlocks(content, v.contentWidth())
	return header + "\n" + v.theme.Body.Render(rendered)
}

// renderSystem renders a system notice in muted text.
func (v *MessageView) renderSystem() string {
	return v.theme.InfoText.Render(v.Message.GetDisplayContent())
}

func (v *MessageView) contentWidth() int {
	w := v.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// WORD WRAPPING
// =============================================================================

// wordWrap wraps text at the given width, preserving existing newlines.
// Words longer than the width are left intact rather than split.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if lipgloss.Width(line) <= width {
			out = append(out, line)
			continue
		}

		var current strings.Builder
		for _, word := range strings.Fields(line) {
			if current.Len() == 0 {
				current.WriteString(word)
				continue
			}
			if lipgloss.Width(current.String())+1+lipgloss.Width(word) > width {
				out = append(out, current.String())
				current.Reset()
				current.WriteString(word)
				continue
			}
			current.WriteString(" ")
			current.WriteString(word)
		}
		if current.Len() > 0 {
			out = append(out, current.String())
		}
	}

	return strings.Join(out, "\n")
}
