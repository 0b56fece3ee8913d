// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for chat transcripts and
// generated research papers.
//
// This package handles saving and loading conversations to/from disk,
// with support for search, listing, and export, plus the bounded
// recent-papers list that successful research runs feed.
//
// # Key Types
//
//   - ConversationStore: persistence for chat transcripts
//   - StoredConversation: serializable conversation with metadata
//   - ConversationMeta: lightweight metadata for listing
//   - PaperStore: the capped recent-papers list
//
// # Usage
//
// Save a conversation:
//
//	store, err := storage.NewConversationStore()
//	id, err := store.Save(storage.FromConversation(conv))
//
// Record a generated paper:
//
//	papers, err := storage.NewPaperStore()
//	err = papers.Add(paper)
//
// # Storage Location
//
// Files live under ~/.agentify/ as JSON.
package storage
