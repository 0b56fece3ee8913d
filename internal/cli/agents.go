// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// agents.go - Agent management commands for the agentify CLI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/util"
)

// HandleAgents dispatches the "agents" subcommands.
func HandleAgents(args Args) error {
	client := newClient(args)
	ctx := context.Background()

	switch strings.ToLower(args.Subcommand) {
	case "", "list", "ls":
		return agentsList(ctx, client, args)
	case "demo":
		return agentsDemo(ctx, client)
	case "create":
		return agentsCreate(ctx, client, args)
	case "delete", "rm":
		return agentsDelete(ctx, client, args)
	case "tools":
		return agentsTools(ctx, client, args)
	case "clear":
		return agentsClear(ctx, client, args)
	default:
		return fmt.Errorf("unknown agents subcommand %q, try: list, demo, create, delete, tools, clear", args.Subcommand)
	}
}

func agentsList(ctx context.Context, client *api.Client, args Args) error {
	agents, err := client.ListAgents(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(agents)
	}

	if len(agents) == 0 {
		fmt.Println(DimStyle.Render("No agents. Run: agentify agents demo"))
		return nil
	}

	fmt.Println(TitleStyle.Render("Agents"))
	for _, a := range agents {
		fmt.Printf("%s %s\n", HighlightStyle.Render(util.TitleLabel(a.AgentType)), a.Name)
		fmt.Printf("  %s%s\n", LabelStyle.Render("ID"), a.ID)
		if a.Description != "" {
			fmt.Printf("  %s%s\n", LabelStyle.Render("About"), WrapText(a.Description, GetTerminalWidth()-18))
		}
		if len(a.Tools) > 0 {
			fmt.Printf("  %s%s\n", LabelStyle.Render("Tools"), strings.Join(a.Tools, ", "))
		}
	}
	return nil
}

// agentsDemo provisions the full demo set, falling back to the static
// listing when the backend cannot create them.
func agentsDemo(ctx context.Context, client *api.Client) error {
	agents := client.EnsureDemoAgents(ctx)
	if len(agents) == 0 {
		return fmt.Errorf("could not provision demo agents at %s", client.BaseURL())
	}

	fmt.Println(SuccessStyle.Render("Demo agents ready:"))
	for _, a := range agents {
		fmt.Printf("  %s  %s\n", util.TitleLabel(a.AgentType), DimStyle.Render(a.ID))
	}
	return nil
}

func agentsCreate(ctx context.Context, client *api.Client, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify agents create <math|intelligent|autonomous>")
	}
	agentType := strings.ToLower(args.Raw[0])

	agent, err := client.CreateDemoAgent(ctx, agentType)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%s)\n", SuccessStyle.Render("Created:"), agent.Name, agent.ID)
	return nil
}

func agentsDelete(ctx context.Context, client *api.Client, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify agents delete <id>")
	}
	id := args.Raw[0]

	if err := client.DeleteAgent(ctx, id); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Deleted: ") + id)
	return nil
}

func agentsTools(ctx context.Context, client *api.Client, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify agents tools <id>")
	}

	tools, err := client.AgentTools(ctx, args.Raw[0])
	if err != nil {
		return err
	}
	if len(tools) == 0 {
		fmt.Println(DimStyle.Render("No tools."))
		return nil
	}
	for _, tool := range tools {
		fmt.Println("  " + tool)
	}
	return nil
}

func agentsClear(ctx context.Context, client *api.Client, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify agents clear <id>")
	}
	if err := client.ClearHistory(ctx, args.Raw[0]); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("History cleared."))
	return nil
}
