// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN COMPONENT
// =============================================================================

// Welcome is the landing screen shown before the first message.
type Welcome struct {
	version   string
	backend   string
	agentType string
	userName  string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version:   "dev",
		agentType: "math",
		theme:     theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetBackend sets the backend URL shown in the info box.
func (w *Welcome) SetBackend(url string) {
	w.backend = url
}

// SetAgentType sets the default agent type.
func (w *Welcome) SetAgentType(agentType string) {
	w.agentType = agentType
}

// SetUserName sets the greeting name for a logged-in user.
func (w *Welcome) SetUserName(name string) {
	w.userName = name
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome screen centered in the terminal.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 56
	if width < 64 {
		boxWidth = width - 8
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	var b strings.Builder
	b.WriteString(w.theme.Title.Render("agentify"))
	b.WriteString("  ")
	b.WriteString(w.theme.InfoText.Render(w.version))
	b.WriteString("\n\n")

	greeting := "Chat with AI agents, run research pipelines, and browse the blog."
	if w.userName != "" {
		greeting = "Welcome back, " + w.userName + "."
	}
	b.WriteString(wordWrap(greeting, boxWidth-6))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Backend", w.backend},
		{"Agent", w.agentType},
	}
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Width(9)
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(row.value)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.theme.InfoText.Render("Type a message to begin. ctrl+r starts research mode."))

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 3).
		Width(boxWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
