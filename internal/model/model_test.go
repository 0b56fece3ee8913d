// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestMessage_Streaming(t *testing.T) {
	msg := NewStreamingAgentMessage("a1")
	if !msg.IsStreaming {
		t.Fatal("new streaming message is not streaming")
	}

	msg.AppendToken("Hel")
	msg.AppendToken("lo")
	if got := msg.GetDisplayContent(); got != "Hello" {
		t.Errorf("display content = %q, want Hello", got)
	}

	msg.FinalizeStream()
	if msg.IsStreaming {
		t.Error("message still streaming after finalize")
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want Hello", msg.Content)
	}

	// Tokens after finalization are dropped.
	msg.AppendToken("!!!")
	if msg.Content != "Hello" {
		t.Errorf("Content mutated after finalize: %q", msg.Content)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("日", 40))
	preview := msg.Preview(10)
	if got := len([]rune(preview)); got != 10 {
		t.Errorf("preview rune length = %d, want 10", got)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("preview = %q, want ellipsis suffix", preview)
	}
}

func TestConversation_AppendOnly(t *testing.T) {
	conv := NewConversation("a1", "math")
	conv.AddUserMessage("what is 2+2")
	agentMsg := conv.AddAgentMessage("4", true)

	if conv.MessageCount() != 2 {
		t.Fatalf("message count = %d, want 2", conv.MessageCount())
	}
	if !agentMsg.ToolsUsed {
		t.Error("ToolsUsed = false, want true")
	}
	if conv.LastMessage().ID != agentMsg.ID {
		t.Error("last message is not the agent reply")
	}

	conv.Clear()
	if conv.MessageCount() != 0 {
		t.Errorf("message count after clear = %d, want 0", conv.MessageCount())
	}
}

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation("a1", "math")
	conv.AddUserMessage("explain the attention mechanism in transformers please and thanks")
	if conv.Title == "" {
		t.Fatal("title not derived from first user message")
	}
	if got := len([]rune(conv.Title)); got > 50 {
		t.Errorf("title rune length = %d, want <= 50", got)
	}
}

func TestConversation_Prune(t *testing.T) {
	conv := NewConversation("a1", "math")
	for i := 0; i < MaxMessages+25; i++ {
		conv.AddMessage(NewUserMessage("m"))
	}
	if conv.MessageCount() != MaxMessages {
		t.Errorf("message count = %d, want pruned to %d", conv.MessageCount(), MaxMessages)
	}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateID()
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}
