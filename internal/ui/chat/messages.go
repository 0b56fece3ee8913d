// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/shahryar908/agentify-sub000/internal/api"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a stream has begun for a message.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTokenMsg delivers a content token from the stream.
type StreamTokenMsg struct {
	MessageID string
	Token     string
	IsFirst   bool
}

// StreamCompleteMsg signals that the stream finished cleanly.
type StreamCompleteMsg struct {
	MessageID string
	ToolsUsed bool
}

// StreamErrorMsg signals a stream failure. Nothing is retried automatically;
// the user decides whether to try again.
type StreamErrorMsg struct {
	MessageID string
	Error     error
}

// StreamTickMsg drives batched token rendering during streaming.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// RESEARCH MESSAGES
// =============================================================================

// ResearchChunkMsg carries a progress, error, success, or partial_success
// chunk from a research stream into the update loop.
type ResearchChunkMsg struct {
	MessageID string
	Chunk     api.StreamChunk
}

// ResearchDoneMsg signals that the research stream has ended.
type ResearchDoneMsg struct {
	MessageID string
}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// AgentsLoadedMsg delivers the agent list fetched at startup.
type AgentsLoadedMsg struct {
	Agents []api.AgentInfo
	Error  error
}

// ChatResponseMsg delivers a non-streaming chat response.
type ChatResponseMsg struct {
	MessageID string
	Response  *api.ChatResponse
	Error     error
}

// HealthMsg reports backend connectivity.
type HealthMsg struct {
	Connected bool
}

// ConversationSavedMsg confirms a conversation save.
type ConversationSavedMsg struct {
	ID    string
	Error error
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// ErrorDismissMsg dismisses the error view.
type ErrorDismissMsg struct{}

// RetryMsg re-sends the last failed request at the user's request.
type RetryMsg struct{}
