// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// agents.go - Typed agent endpoints for the Agentify backend.
//
// The backend hosts one agent per type. The client enforces that view:
// listings are deduplicated by agent_type (most recently seen entry wins)
// and filtered to the fixed allow-list of known types. Demo agents can be
// created in parallel for first-run setups, with a static fallback set
// when the backend is unreachable.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Known agent types. Listings are filtered to exactly this set.
const (
	AgentTypeMath        = "math"
	AgentTypeIntelligent = "intelligent"
	AgentTypeAutonomous  = "autonomous"
)

// allowedAgentTypes is the fixed allow-list for listings.
var allowedAgentTypes = map[string]bool{
	AgentTypeMath:        true,
	AgentTypeIntelligent: true,
	AgentTypeAutonomous:  true,
}

// =============================================================================
// TYPES
// =============================================================================

// AgentInfo describes a backend-hosted agent. The client treats agents as
// opaque beyond id, type, and tool listing.
type AgentInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AgentType   string   `json:"agent_type"`
	Tools       []string `json:"tools"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// CreateAgentRequest is the body for agent creation.
type CreateAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AgentType   string `json:"agent_type"`
}

// ChatResponse is the backend's answer to a non-streaming chat request.
type ChatResponse struct {
	Response  string `json:"response"`
	AgentID   string `json:"agent_id"`
	ToolsUsed bool   `json:"tools_used"`
	Timestamp string `json:"timestamp,omitempty"`
}

// chatRequest is the body for chat requests.
type chatRequest struct {
	Message string `json:"message"`
}

// agentListResponse is the wire shape of the agent listing.
type agentListResponse struct {
	Agents []AgentInfo `json:"agents"`
}

// toolsResponse is the wire shape of an agent tool listing.
type toolsResponse struct {
	AgentID string   `json:"agent_id"`
	Tools   []string `json:"tools"`
}

// =============================================================================
// AGENT CRUD
// =============================================================================

// ListAgents returns the backend's agents, deduplicated by agent type and
// filtered to the known types. When two agents share a type, the later
// entry in the backend's list wins.
func (c *Client) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	var resp agentListResponse
	if err := c.request(ctx, http.MethodGet, "/agents", nil, &resp); err != nil {
		return nil, err
	}
	return DedupeAgents(resp.Agents), nil
}

// DedupeAgents keeps the most recently seen agent per type and filters out
// unknown types. Order follows first appearance of each surviving type.
func DedupeAgents(agents []AgentInfo) []AgentInfo {
	byType := make(map[string]AgentInfo, len(agents))
	order := make([]string, 0, len(agents))
	for _, a := range agents {
		if !allowedAgentTypes[a.AgentType] {
			continue
		}
		if _, seen := byType[a.AgentType]; !seen {
			order = append(order, a.AgentType)
		}
		byType[a.AgentType] = a // later entry wins
	}
	out := make([]AgentInfo, 0, len(order))
	for _, t := range order {
		out = append(out, byType[t])
	}
	return out
}

// GetAgent fetches a single agent by id.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*AgentInfo, error) {
	var agent AgentInfo
	path := fmt.Sprintf("/agents/%s", agentID)
	if err := c.request(ctx, http.MethodGet, path, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// CreateAgent creates a new agent on the backend.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*AgentInfo, error) {
	var agent AgentInfo
	if err := c.request(ctx, http.MethodPost, "/agents", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent removes an agent from the backend.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	path := fmt.Sprintf("/agents/%s", agentID)
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// =============================================================================
// CHAT
// =============================================================================

// ChatWithAgent sends a message to an agent and waits for the full reply.
func (c *Client) ChatWithAgent(ctx context.Context, agentID, message string) (*ChatResponse, error) {
	var resp ChatResponse
	path := fmt.Sprintf("/agents/%s/chat", agentID)
	if err := c.request(ctx, http.MethodPost, path, chatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearHistory erases an agent's server-side conversation history.
func (c *Client) ClearHistory(ctx context.Context, agentID string) error {
	path := fmt.Sprintf("/agents/%s/clear-history", agentID)
	return c.request(ctx, http.MethodPost, path, nil, nil)
}

// AgentTools lists the tools available to an agent.
func (c *Client) AgentTools(ctx context.Context, agentID string) ([]string, error) {
	var resp toolsResponse
	path := fmt.Sprintf("/agents/%s/tools", agentID)
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tools, nil
}

// =============================================================================
// DEMO AGENTS
// =============================================================================

// Demo creation endpoints, one per agent type.
var demoEndpoints = map[string]string{
	AgentTypeMath:        "/demo/create-sample-agent",
	AgentTypeIntelligent: "/demo/create-intelligent-agent",
	AgentTypeAutonomous:  "/demo/create-autonomous-agent",
}

// CreateDemoAgent creates the demo agent for the given type.
func (c *Client) CreateDemoAgent(ctx context.Context, agentType string) (*AgentInfo, error) {
	endpoint, ok := demoEndpoints[agentType]
	if !ok {
		return nil, fmt.Errorf("no demo endpoint for agent type %q", agentType)
	}
	var agent AgentInfo
	if err := c.request(ctx, http.MethodPost, endpoint, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// EnsureDemoAgents lists the backend's agents and creates any of the three
// demo agents that are missing, in parallel. All creations must succeed;
// on any failure (listing or creation) the static FallbackAgents set is
// returned instead. There is no partial-success path here.
func (c *Client) EnsureDemoAgents(ctx context.Context) []AgentInfo {
	existing, err := c.ListAgents(ctx)
	if err != nil {
		return FallbackAgents()
	}

	have := make(map[string]bool, len(existing))
	for _, a := range existing {
		have[a.AgentType] = true
	}

	var missing []string
	for _, t := range []string{AgentTypeMath, AgentTypeIntelligent, AgentTypeAutonomous} {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return existing
	}

	// Fan out the missing creations and join before re-listing.
	var wg sync.WaitGroup
	errCh := make(chan error, len(missing))
	for _, t := range missing {
		wg.Add(1)
		go func(agentType string) {
			defer wg.Done()
			if _, err := c.CreateDemoAgent(ctx, agentType); err != nil {
				errCh <- err
			}
		}(t)
	}
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return FallbackAgents()
	}

	agents, err := c.ListAgents(ctx)
	if err != nil {
		return FallbackAgents()
	}
	return agents
}

// FallbackAgents returns the static agent set used when the backend cannot
// provide one. IDs are placeholders; chat against them will fail until the
// backend is reachable.
func FallbackAgents() []AgentInfo {
	return []AgentInfo{
		{
			ID:          "demo-math",
			Name:        "Math Agent",
			Description: "Performs mathematical calculations",
			AgentType:   AgentTypeMath,
			Tools:       []string{"calculator"},
		},
		{
			ID:          "demo-intelligent",
			Name:        "Intelligent Agent",
			Description: "Answers questions using web search",
			AgentType:   AgentTypeIntelligent,
			Tools:       []string{"web_search"},
		},
		{
			ID:          "demo-autonomous",
			Name:        "Autonomous Agent",
			Description: "Breaks down goals into steps and works through them",
			AgentType:   AgentTypeAutonomous,
			Tools:       []string{"planner", "web_search", "calculator"},
		},
	}
}
