// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive TUI for agentify: the chat view,
// the research pipeline view, and the streaming machinery that feeds agent
// tokens into the Bubble Tea update loop.
package chat
