// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// MaxMessages is the maximum number of messages kept in a conversation.
// When exceeded, the oldest messages are pruned to bound memory.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat with one agent, with metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// The agent this conversation is with
	AgentID   string `json:"agent_id"`
	AgentType string `json:"agent_type,omitempty"`

	// Messages, append-only
	Messages []*Message `json:"messages"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation(agentID, agentType string) *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		AgentID:   agentID,
		AgentType: agentType,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAgentMessage creates and appends a completed agent message.
func (c *Conversation) AddAgentMessage(content string, toolsUsed bool) *Message {
	msg := NewAgentMessage(c.AgentID, content, toolsUsed)
	c.AddMessage(msg)
	return msg
}

// AddStreamingAgentMessage creates and appends a streaming agent message.
func (c *Conversation) AddStreamingAgentMessage() *Message {
	msg := NewStreamingAgentMessage(c.AgentID)
	c.AddMessage(msg)
	return msg
}

// Clear removes all messages. This is the only way message history is
// discarded.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil when empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// updateTitle derives the title from the first user message.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			title := strings.TrimSpace(msg.Content)
			runes := []rune(title)
			if len(runes) > 50 {
				title = string(runes[:47]) + "..."
			}
			c.Title = title
			return
		}
	}
}

// pruneOldMessages drops the oldest messages past MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append([]*Message(nil), c.Messages[excess:]...)
}

// generateConversationID creates a random conversation identifier.
func generateConversationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "conv_" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return "conv_" + hex.EncodeToString(b)
}
