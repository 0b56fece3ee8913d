// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the agentify CLI.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/config"
)

// MaxStdinSize caps piped input (50KB).
const MaxStdinSize = 50 * 1024

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for markdown output.
// USABILITY: Renders markdown responses with syntax highlighting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the
// original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse renders markdown only when stdout is a TTY so piped
// output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
		return
	}
	fmt.Print(response)
	if !strings.HasSuffix(response, "\n") {
		fmt.Println()
	}
}

// =============================================================================
// CLIENT SETUP
// =============================================================================

// newClient builds an API client from config plus CLI overrides.
func newClient(args Args) *api.Client {
	cfg := config.Global()

	baseURL := cfg.API.BaseURL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}

	client := api.NewClient(baseURL)
	if cfg.API.TimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
	}
	return client
}

// resolveAgent picks the agent to talk to: the requested type if present,
// otherwise the configured default, otherwise the first agent available.
func resolveAgent(ctx context.Context, client *api.Client, args Args) (*api.AgentInfo, error) {
	agents := client.EnsureDemoAgents(ctx)
	if len(agents) == 0 {
		return nil, fmt.Errorf("no agents available at %s", client.BaseURL())
	}

	wanted := args.AgentType
	if wanted == "" {
		wanted = config.Global().Chat.DefaultAgentType
	}

	for i := range agents {
		if agents[i].AgentType == wanted {
			return &agents[i], nil
		}
	}
	return &agents[0], nil
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command: send one question, print the answer.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)

	// Piped input becomes context appended to the query.
	if !IsTTY() {
		piped, err := readStdin()
		if err != nil {
			return err
		}
		if piped != "" {
			if query == "" {
				query = piped
			} else {
				query = query + "\n\n" + piped
			}
		}
	}

	if query == "" {
		return fmt.Errorf("no question given; usage: agentify ask \"question\"")
	}

	client := newClient(args)
	ctx := context.Background()

	agent, err := resolveAgent(ctx, client, args)
	if err != nil {
		return err
	}

	if !args.Quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, DimStyle.Render("Asking "+agent.Name+"..."))
	}

	resp, err := client.ChatWithAgent(ctx, agent.ID, query)
	if err != nil {
		return err
	}

	displayResponse(resp.Response)

	if resp.ToolsUsed && !args.Quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, DimStyle.Render("(tools were used to answer this)"))
	}
	return nil
}

// readStdin reads piped stdin up to MaxStdinSize.
func readStdin() (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxStdinSize))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
