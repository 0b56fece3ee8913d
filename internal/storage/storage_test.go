// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahryar908/agentify-sub000/internal/model"
)

// =============================================================================
// PAPER STORE TESTS
// =============================================================================

func newTestPaperStore(t *testing.T) *PaperStore {
	t.Helper()
	store, err := NewPaperStoreWithDir(t.TempDir())
	require.NoError(t, err)
	return store
}

// TestPaperStore_CapAtFive verifies repeated additions never exceed five
// entries and the newest is always at index 0.
func TestPaperStore_CapAtFive(t *testing.T) {
	store := newTestPaperStore(t)

	for i := 0; i < 9; i++ {
		err := store.Add(model.Paper{
			ID:          fmt.Sprintf("p%d", i),
			Title:       fmt.Sprintf("Paper %d", i),
			GeneratedAt: time.Now(),
		})
		require.NoError(t, err)

		papers := store.Recent()
		assert.LessOrEqual(t, len(papers), MaxRecentPapers, "list exceeded cap")
		assert.Equal(t, fmt.Sprintf("p%d", i), papers[0].ID, "newest paper not at index 0")
	}

	papers := store.Recent()
	require.Len(t, papers, MaxRecentPapers)
	// After nine additions only the last five survive, newest first.
	for i, paper := range papers {
		assert.Equal(t, fmt.Sprintf("p%d", 8-i), paper.ID)
	}
}

// TestPaperStore_PersistsAcrossInstances verifies the list survives a new
// store over the same directory.
func TestPaperStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewPaperStoreWithDir(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Add(model.Paper{ID: "p1", Title: "First"}))

	store2, err := NewPaperStoreWithDir(dir)
	require.NoError(t, err)
	papers := store2.Recent()
	require.Len(t, papers, 1)
	assert.Equal(t, "First", papers[0].Title)
}

// TestPaperStore_MissingFile verifies a fresh store reads as empty.
func TestPaperStore_MissingFile(t *testing.T) {
	store := newTestPaperStore(t)
	assert.Empty(t, store.Recent())
}

// TestPaperStore_Clear verifies clearing and re-clearing.
func TestPaperStore_Clear(t *testing.T) {
	store := newTestPaperStore(t)
	require.NoError(t, store.Add(model.Paper{ID: "p1"}))
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Recent())
	assert.NoError(t, store.Clear(), "clearing an empty store must not fail")
}

// =============================================================================
// CONVERSATION STORE TESTS
// =============================================================================

func newTestConversationStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStoreWithDir(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConversationStore_SaveLoad(t *testing.T) {
	store := newTestConversationStore(t)

	conv := model.NewConversation("a1", "math")
	conv.AddUserMessage("what is 2+2")
	conv.AddAgentMessage("4", true)

	id, err := store.Save(FromConversation(conv))
	require.NoError(t, err)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "math", loaded.AgentType)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "4", loaded.Messages[1].Content)
	assert.True(t, loaded.Messages[1].ToolsUsed)
}

func TestConversationStore_LoadMissing(t *testing.T) {
	store := newTestConversationStore(t)
	_, err := store.Load("nope")
	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestConversationStore_ListNewestFirst(t *testing.T) {
	store := newTestConversationStore(t)

	for i := 0; i < 3; i++ {
		conv := &StoredConversation{
			AgentID:   "a1",
			Messages:  []StoredMessage{{Role: "user", Content: fmt.Sprintf("question %d", i)}},
			UpdatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		_, err := store.Save(conv)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Contains(t, metas[0].Preview, "question 2", "listing not newest first")
}

func TestConversationStore_EnforceLimit(t *testing.T) {
	store := newTestConversationStore(t)
	store.MaxConversations = 2

	for i := 0; i < 4; i++ {
		_, err := store.Save(&StoredConversation{
			Messages: []StoredMessage{{Role: "user", Content: fmt.Sprintf("q%d", i)}},
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2, "store did not enforce the conversation cap")
}

func TestConversationStore_Search(t *testing.T) {
	store := newTestConversationStore(t)
	_, err := store.Save(&StoredConversation{
		Messages: []StoredMessage{{Role: "user", Content: "explain quantum entanglement"}},
	})
	require.NoError(t, err)
	_, err = store.Save(&StoredConversation{
		Messages: []StoredMessage{{Role: "user", Content: "derivative of x squared"}},
	})
	require.NoError(t, err)

	matched, err := store.Search("Quantum")
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestStoredConversation_ExportMarkdown(t *testing.T) {
	conv := &StoredConversation{
		Summary:   "math help",
		AgentType: "math",
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Messages: []StoredMessage{
			{Role: "user", Content: "what is 2+2"},
			{Role: "agent", Content: "4", ToolsUsed: true},
		},
	}

	md := conv.ExportMarkdown()
	assert.Contains(t, md, "# math help")
	assert.Contains(t, md, "**You:**")
	assert.Contains(t, md, "tools used")
	assert.Contains(t, md, "4")
}
