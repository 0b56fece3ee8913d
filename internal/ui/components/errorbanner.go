// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER COMPONENT
// =============================================================================

// ErrorBanner renders a failure state with a retry hint. Retrying is always
// a user action; nothing is retried automatically.
type ErrorBanner struct {
	theme *styles.Theme
	width int

	err error
}

// NewErrorBanner creates an error banner.
func NewErrorBanner(theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{
		theme: theme,
		width: 80,
	}
}

// SetWidth sets the banner width.
func (e *ErrorBanner) SetWidth(width int) {
	e.width = width
}

// SetError sets the error to display.
func (e *ErrorBanner) SetError(err error) {
	e.err = err
}

// View renders the banner, or nothing when no error is set.
func (e *ErrorBanner) View() string {
	if e.err == nil {
		return ""
	}

	maxWidth := e.width - 4
	if maxWidth < 30 {
		maxWidth = 30
	}

	heading := "Something went wrong"
	hint := "Press r to try again, or esc to dismiss."

	var apiErr *api.APIError
	var netErr *api.NetworkError
	var timeoutErr *api.TimeoutError
	switch {
	case errors.As(e.err, &timeoutErr):
		heading = "Request timed out"
		hint = "The backend did not respond in time. Press r to try again."
	case errors.As(e.err, &netErr):
		heading = "Cannot reach backend"
		hint = "Check that the agentify backend is running, then press r to try again."
	case errors.As(e.err, &apiErr):
		heading = "Backend error"
	}

	body := e.theme.StepError.Render(heading) + "\n\n" +
		wordWrap(e.err.Error(), maxWidth-6) + "\n\n" +
		e.theme.InfoText.Render(hint)

	return e.theme.ErrorBox.MaxWidth(maxWidth).Render(body)
}

// =============================================================================
// INLINE NOTICE
// =============================================================================

// Notice renders a one-line informational notice.
func Notice(text string, theme *styles.Theme) string {
	return theme.InfoText.PaddingLeft(1).Render(text)
}
