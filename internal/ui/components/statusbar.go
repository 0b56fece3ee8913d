// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
	"github.com/shahryar908/agentify-sub000/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the single-line bar at the bottom of the TUI showing the
// active agent, backend state, and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	agentType string
	agentName string
	connected bool
	hints     []KeyHint
}

// KeyHint is a key binding displayed in the status bar.
type KeyHint struct {
	Key   string
	Label string
}

// NewStatusBar creates a status bar with default key hints.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		theme: theme,
		width: 80,
		hints: []KeyHint{
			{Key: "enter", Label: "send"},
			{Key: "ctrl+r", Label: "research"},
			{Key: "esc", Label: "cancel"},
			{Key: "ctrl+c", Label: "quit"},
		},
	}
}

// SetWidth sets the bar width.
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetAgent sets the active agent shown on the left.
func (sb *StatusBar) SetAgent(agentType, agentName string) {
	sb.agentType = agentType
	sb.agentName = agentName
}

// SetConnected sets the backend connectivity indicator.
func (sb *StatusBar) SetConnected(connected bool) {
	sb.connected = connected
}

// SetHints replaces the key hints.
func (sb *StatusBar) SetHints(hints []KeyHint) {
	sb.hints = hints
}

// View renders the status bar.
func (sb *StatusBar) View() string {
	left := sb.renderAgent()
	right := sb.renderHints()

	gap := sb.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return sb.theme.StatusBar.Width(sb.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

// renderAgent renders the agent segment with a connectivity dot.
func (sb *StatusBar) renderAgent() string {
	dot := "o"
	dotColor := styles.Emerald
	if !sb.connected {
		dot = "x"
		dotColor = styles.Rose
	}

	label := util.TitleLabel(sb.agentType)
	if label == "" {
		label = "No Agent"
	}
	if sb.agentName != "" {
		label += " (" + util.TruncateRunes(sb.agentName, 24) + ")"
	}

	return lipgloss.NewStyle().Foreground(dotColor).Render(dot) + " " + label
}

// renderHints renders the key hint segment.
func (sb *StatusBar) renderHints() string {
	parts := make([]string, 0, len(sb.hints))
	for _, h := range sb.hints {
		parts = append(parts, sb.theme.StatusKey.Render(h.Key)+" "+h.Label)
	}
	return strings.Join(parts, "  ")
}
