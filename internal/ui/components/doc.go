// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the agentify TUI:
// message bubbles, the research step list, spinners, the status bar, and
// the welcome and error screens.
package components
