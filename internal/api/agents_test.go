// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// =============================================================================
// DEDUPLICATION TESTS
// =============================================================================

// TestDedupeAgents_LaterWins verifies that when two agents share a type,
// the later entry in the input list wins.
func TestDedupeAgents_LaterWins(t *testing.T) {
	agents := []AgentInfo{
		{ID: "old-math", AgentType: "math", Name: "Old Math"},
		{ID: "auto-1", AgentType: "autonomous", Name: "Auto"},
		{ID: "new-math", AgentType: "math", Name: "New Math"},
	}

	got := DedupeAgents(agents)
	if len(got) != 2 {
		t.Fatalf("got %d agents, want 2", len(got))
	}
	if got[0].ID != "new-math" {
		t.Errorf("math slot = %q, want new-math (later entry wins)", got[0].ID)
	}
	if got[1].ID != "auto-1" {
		t.Errorf("second slot = %q, want auto-1", got[1].ID)
	}
}

// TestDedupeAgents_AllowList verifies unknown types are filtered out.
func TestDedupeAgents_AllowList(t *testing.T) {
	agents := []AgentInfo{
		{ID: "m", AgentType: "math"},
		{ID: "x", AgentType: "experimental"},
		{ID: "i", AgentType: "intelligent"},
		{ID: "a", AgentType: "autonomous"},
		{ID: "z", AgentType: ""},
	}

	got := DedupeAgents(agents)
	if len(got) != 3 {
		t.Fatalf("got %d agents, want 3 (allow-list filter)", len(got))
	}
	for _, a := range got {
		if !allowedAgentTypes[a.AgentType] {
			t.Errorf("unexpected agent type %q survived the filter", a.AgentType)
		}
	}
}

// TestListAgents_Dedupes verifies the endpoint applies deduplication.
func TestListAgents_Dedupes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(agentListResponse{Agents: []AgentInfo{
			{ID: "m1", AgentType: "math"},
			{ID: "m2", AgentType: "math"},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	agents, err := client.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if len(agents) != 1 || agents[0].ID != "m2" {
		t.Errorf("agents = %+v, want single m2", agents)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

// TestChatWithAgent verifies the chat request and response shapes.
func TestChatWithAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agents/a1/chat" {
			t.Errorf("path = %q, want /agents/a1/chat", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Message != "what is 2+2" {
			t.Errorf("message = %q, want the user message", req.Message)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"4","agent_id":"a1","tools_used":true,"timestamp":"2024-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.ChatWithAgent(context.Background(), "a1", "what is 2+2")
	if err != nil {
		t.Fatalf("ChatWithAgent failed: %v", err)
	}
	if resp.Response != "4" {
		t.Errorf("Response = %q, want %q", resp.Response, "4")
	}
	if !resp.ToolsUsed {
		t.Error("ToolsUsed = false, want true")
	}
	if resp.AgentID != "a1" {
		t.Errorf("AgentID = %q, want a1", resp.AgentID)
	}
}

// =============================================================================
// DEMO AGENT TESTS
// =============================================================================

// TestEnsureDemoAgents_CreatesMissingInParallel verifies missing demo
// agents are created and the refreshed listing is returned.
func TestEnsureDemoAgents_CreatesMissingInParallel(t *testing.T) {
	var created atomic.Int32
	var mathExists atomic.Bool
	mathExists.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/agents":
			agents := []AgentInfo{{ID: "m", AgentType: "math"}}
			if created.Load() >= 2 {
				agents = append(agents,
					AgentInfo{ID: "i", AgentType: "intelligent"},
					AgentInfo{ID: "a", AgentType: "autonomous"})
			}
			json.NewEncoder(w).Encode(agentListResponse{Agents: agents})
		case "/demo/create-intelligent-agent", "/demo/create-autonomous-agent":
			created.Add(1)
			json.NewEncoder(w).Encode(AgentInfo{ID: "new", AgentType: "intelligent"})
		case "/demo/create-sample-agent":
			t.Error("math demo agent created although it already exists")
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	agents := client.EnsureDemoAgents(context.Background())
	if created.Load() != 2 {
		t.Errorf("created %d demo agents, want 2", created.Load())
	}
	if len(agents) != 3 {
		t.Errorf("got %d agents, want 3 after creation", len(agents))
	}
}

// TestEnsureDemoAgents_FallbackOnAnyFailure verifies any creation failure
// falls through to the static set, with no partial-success handling.
func TestEnsureDemoAgents_FallbackOnAnyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/agents":
			json.NewEncoder(w).Encode(agentListResponse{Agents: nil})
		case "/demo/create-sample-agent", "/demo/create-intelligent-agent":
			json.NewEncoder(w).Encode(AgentInfo{ID: "ok"})
		case "/demo/create-autonomous-agent":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "agent runtime down"}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	agents := client.EnsureDemoAgents(context.Background())

	fallback := FallbackAgents()
	if len(agents) != len(fallback) {
		t.Fatalf("got %d agents, want the %d-entry fallback set", len(agents), len(fallback))
	}
	for i, a := range agents {
		if a.ID != fallback[i].ID {
			t.Errorf("agent[%d] = %q, want fallback %q", i, a.ID, fallback[i].ID)
		}
	}
}

// TestEnsureDemoAgents_FallbackWhenUnreachable verifies an unreachable
// backend yields the static set.
func TestEnsureDemoAgents_FallbackWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := NewClient(addr)
	agents := client.EnsureDemoAgents(context.Background())
	if len(agents) != 3 {
		t.Fatalf("got %d agents, want 3-entry fallback", len(agents))
	}
	if agents[0].AgentType != AgentTypeMath {
		t.Errorf("first fallback type = %q, want math", agents[0].AgentType)
	}
}
