// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shahryar908/agentify-sub000/internal/research"
	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
)

// =============================================================================
// RESEARCH STEP LIST COMPONENT
// =============================================================================

// StepList renders the fixed research pipeline as a vertical checklist.
type StepList struct {
	tracker *research.Tracker
	theme   *styles.Theme
	width   int

	showDescriptions bool
}

// NewStepList creates a step list bound to a tracker.
func NewStepList(tracker *research.Tracker, theme *styles.Theme) *StepList {
	return &StepList{
		tracker:          tracker,
		theme:            theme,
		width:            80,
		showDescriptions: true,
	}
}

// SetWidth sets the component width.
func (sl *StepList) SetWidth(width int) {
	sl.width = width
}

// SetShowDescriptions toggles the per-step description lines.
func (sl *StepList) SetShowDescriptions(show bool) {
	sl.showDescriptions = show
}

// View renders the step list.
func (sl *StepList) View() string {
	if sl.tracker == nil {
		return sl.theme.InfoText.Render("No research in progress")
	}

	var b strings.Builder
	for i, step := range sl.tracker.Steps {
		b.WriteString(sl.renderStep(step))
		if i < len(sl.tracker.Steps)-1 {
			b.WriteString("\n")
		}
	}

	if msg := sl.tracker.Message; msg != "" {
		b.WriteString("\n\n")
		if sl.tracker.Outcome == research.OutcomeError {
			b.WriteString(sl.theme.StepError.Render(msg))
		} else {
			b.WriteString(sl.theme.InfoText.Render(msg))
		}
	}

	return b.String()
}

// renderStep renders a single step row with its status icon and progress.
func (sl *StepList) renderStep(step research.Step) string {
	icon := step.Status.StatusIcon()

	var iconStyle, titleStyle lipgloss.Style
	switch step.Status {
	case research.StatusInProgress:
		iconStyle = sl.theme.StepInProgress
		titleStyle = sl.theme.StepInProgress
	case research.StatusCompleted:
		iconStyle = sl.theme.StepCompleted
		titleStyle = sl.theme.Body
	case research.StatusError:
		iconStyle = sl.theme.StepError
		titleStyle = sl.theme.StepError
	default:
		iconStyle = sl.theme.StepPending
		titleStyle = sl.theme.StepPending
	}

	row := fmt.Sprintf("%s %s %s",
		iconStyle.Render(icon),
		titleStyle.Render(step.Title),
		sl.theme.Timestamp.Render(fmt.Sprintf("%d%%", step.Progress)),
	)

	if sl.showDescriptions && step.Status == research.StatusInProgress {
		row += "\n" + sl.theme.StepDesc.PaddingLeft(4).Render(step.Description)
	}

	return row
}

// =============================================================================
// PAPER SUMMARY CARD
// =============================================================================

// PaperCard renders a generated paper summary after a successful run.
func PaperCard(title, abstract, downloadRef string, theme *styles.Theme, width int) string {
	maxWidth := width - 4
	if maxWidth < 30 {
		maxWidth = 30
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(wordWrap(abstract, maxWidth-4))
	b.WriteString("\n\n")
	b.WriteString(theme.InfoText.Render("PDF: " + downloadRef))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Emerald).
		Padding(1, 2).
		MaxWidth(maxWidth).
		Render(b.String())
}
