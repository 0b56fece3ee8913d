// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and command handlers for the
// agentify command line: one-shot questions, the chat REPL, the research
// pipeline, agent and blog management, the local library, and session,
// config, and setup commands.
package cli
