// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for chat transcripts and the
// bounded recent-papers list.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/util"
)

// =============================================================================
// STORED CONVERSATION TYPE
// =============================================================================

// StoredConversation represents a persisted chat with one agent.
type StoredConversation struct {
	// Identity
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	AgentID   string    `json:"agent_id"`
	AgentType string    `json:"agent_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []StoredMessage `json:"messages"`
}

// StoredMessage represents a persisted message.
type StoredMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user", "agent", "system"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	ToolsUsed bool      `json:"tools_used,omitempty"`
}

// ConversationMeta contains metadata for listing conversations.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	AgentType    string    `json:"agent_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"` // First user message truncated
}

// FromConversation converts an in-memory conversation for persistence.
func FromConversation(conv *model.Conversation) *StoredConversation {
	stored := &StoredConversation{
		ID:        conv.ID,
		Summary:   conv.Title,
		AgentID:   conv.AgentID,
		AgentType: conv.AgentType,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  make([]StoredMessage, 0, len(conv.Messages)),
	}
	for _, msg := range conv.Messages {
		stored.Messages = append(stored.Messages, StoredMessage{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.GetDisplayContent(),
			Timestamp: msg.Timestamp,
			ToolsUsed: msg.ToolsUsed,
		})
	}
	return stored
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore handles conversation persistence as one JSON file per
// conversation.
type ConversationStore struct {
	// BaseDir is the directory holding conversation files.
	// Default: ~/.agentify/conversations/
	BaseDir string

	// MaxConversations limits stored conversations (0 = unlimited).
	MaxConversations int
}

// NewConversationStore creates a store under the user's home directory.
func NewConversationStore() (*ConversationStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewConversationStoreWithDir(filepath.Join(homeDir, ".agentify", "conversations"))
}

// NewConversationStoreWithDir creates a store with a custom directory.
func NewConversationStoreWithDir(baseDir string) (*ConversationStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &ConversationStore{
		BaseDir:          baseDir,
		MaxConversations: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation and returns its ID.
func (s *ConversationStore) Save(conv *StoredConversation) (string, error) {
	if conv.ID == "" {
		conv.ID = generateStoreID("conv")
	}
	if conv.Summary == "" {
		conv.Summary = s.generateSummary(conv)
	}
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}
	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0600); err != nil {
		return "", err
	}

	if s.MaxConversations > 0 {
		s.enforceLimit()
	}
	return conv.ID, nil
}

// generateSummary derives a summary from the first user message.
func (s *ConversationStore) generateSummary(conv *StoredConversation) string {
	for _, msg := range conv.Messages {
		if msg.Role == "user" && msg.Content != "" {
			return util.TruncateRunes(strings.TrimSpace(msg.Content), 60)
		}
	}
	return "Empty conversation"
}

// enforceLimit removes the oldest conversations past the cap.
func (s *ConversationStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}
	// List is newest first; everything past the cap goes.
	for _, meta := range metas[s.MaxConversations:] {
		os.Remove(s.filePath(meta.ID))
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load reads a conversation by ID.
func (s *ConversationStore) Load(id string) (*StoredConversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	var conv StoredConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("corrupt conversation file %s: %w", id, err)
	}
	return &conv, nil
}

// List returns conversation metadata, newest first.
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var metas []ConversationMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		conv, err := s.Load(id)
		if err != nil {
			continue // skip corrupt files, keep the listing usable
		}
		metas = append(metas, ConversationMeta{
			ID:           conv.ID,
			Summary:      conv.Summary,
			AgentType:    conv.AgentType,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
			Preview:      conv.GetPreview(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search returns conversations whose summary or preview contains the
// query, case-insensitive.
func (s *ConversationStore) Search(query string) ([]ConversationMeta, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	var matched []ConversationMeta
	for _, meta := range metas {
		if strings.Contains(strings.ToLower(meta.Summary), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			matched = append(matched, meta)
		}
	}
	return matched, nil
}

// Delete removes a conversation by ID.
func (s *ConversationStore) Delete(id string) error {
	err := os.Remove(s.filePath(id))
	if os.IsNotExist(err) {
		return ErrConversationNotFound
	}
	return err
}

// Clear removes all stored conversations.
func (s *ConversationStore) Clear() error {
	metas, err := s.List()
	if err != nil {
		return err
	}
	for _, meta := range metas {
		if err := os.Remove(s.filePath(meta.ID)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// filePath returns the on-disk path for a conversation ID.
func (s *ConversationStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// generateStoreID creates a random identifier with the given prefix.
func generateStoreID(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return prefix + "_" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return prefix + "_" + hex.EncodeToString(b)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound indicates the requested conversation does not exist.
var ErrConversationNotFound = &ConversationError{Message: "conversation not found"}

// ConversationError represents a storage-level conversation error.
type ConversationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConversationError) Error() string {
	return e.Message
}

// Is supports errors.Is matching against ErrConversationNotFound.
func (e *ConversationError) Is(target error) bool {
	t, ok := target.(*ConversationError)
	return ok && t.Message == e.Message
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the conversation as a markdown transcript.
func (c *StoredConversation) ExportMarkdown() string {
	var b strings.Builder
	title := c.Summary
	if title == "" {
		title = "Conversation"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if c.AgentType != "" {
		fmt.Fprintf(&b, "Agent: %s\n", c.AgentType)
	}
	fmt.Fprintf(&b, "Date: %s\n\n---\n\n", c.CreatedAt.Format("2006-01-02 15:04"))

	for _, msg := range c.Messages {
		switch msg.Role {
		case "user":
			fmt.Fprintf(&b, "**You:**\n\n%s\n\n", msg.Content)
		case "agent":
			label := "**Agent:**"
			if msg.ToolsUsed {
				label = "**Agent** _(tools used)_**:**"
			}
			fmt.Fprintf(&b, "%s\n\n%s\n\n", label, msg.Content)
		default:
			fmt.Fprintf(&b, "_%s_\n\n", msg.Content)
		}
	}
	return b.String()
}

// ExportJSON renders the conversation as indented JSON.
func (c *StoredConversation) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// GetPreview returns the first user message, truncated.
func (c *StoredConversation) GetPreview() string {
	for _, msg := range c.Messages {
		if msg.Role == "user" && msg.Content != "" {
			return util.TruncateRunes(strings.TrimSpace(msg.Content), 80)
		}
	}
	return ""
}

// MessageCount returns the number of stored messages.
func (c *StoredConversation) MessageCount() int {
	return len(c.Messages)
}
