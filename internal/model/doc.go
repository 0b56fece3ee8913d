// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, and generated research
// papers.
//
// # Key Types
//
//   - Conversation: Container for a chat session with one agent
//   - Message: Single message with role, content, timestamp, and tools-used flag
//   - Paper: Locally synthesized record of a generated research paper
//   - Role: Message role enumeration (user, agent, system)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation("agent-1", "math")
//	conv.AddUserMessage("What is 2+2?")
//	conv.AddAgentMessage("4", true)
package model
