// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme bundles the pre-built styles used across the TUI. Build one with
// NewTheme and share it; styles are immutable after construction.
type Theme struct {
	// Chat
	UserLabel  lipgloss.Style
	AgentLabel lipgloss.Style
	Timestamp  lipgloss.Style
	ToolsBadge lipgloss.Style
	Body       lipgloss.Style

	// Research steps
	StepPending    lipgloss.Style
	StepInProgress lipgloss.Style
	StepCompleted  lipgloss.Style
	StepError      lipgloss.Style
	StepDesc       lipgloss.Style

	// Chrome
	Title      lipgloss.Style
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	ErrorBox   lipgloss.Style
	InfoText   lipgloss.Style
	InputFrame lipgloss.Style
	Spinner    lipgloss.Style
}

// NewTheme builds the theme. mode is "dark", "light", or "auto"; auto
// defers to terminal background detection.
func NewTheme(mode string) *Theme {
	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}

	t := &Theme{}

	t.UserLabel = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.AgentLabel = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.ToolsBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1).
		Bold(true)
	t.Body = lipgloss.NewStyle().Foreground(TextPrimary)

	t.StepPending = lipgloss.NewStyle().Foreground(TextMuted)
	t.StepInProgress = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.StepCompleted = lipgloss.NewStyle().Foreground(Emerald)
	t.StepError = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StepDesc = lipgloss.NewStyle().Foreground(TextSecondary)

	t.Title = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.InfoText = lipgloss.NewStyle().Foreground(TextSecondary)
	t.InputFrame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)

	return t
}
