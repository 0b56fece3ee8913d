// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// agentify is a terminal client for the agentify backend: chat with AI
// agents, run the autonomous research pipeline, and manage the blog.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/cli"
	"github.com/shahryar908/agentify-sub000/internal/config"
	"github.com/shahryar908/agentify-sub000/internal/session"
	"github.com/shahryar908/agentify-sub000/internal/storage"
	"github.com/shahryar908/agentify-sub000/internal/ui/chat"
	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
)

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdResearch:
		err = cli.HandleResearch(args)
	case cli.CmdAgents:
		err = cli.HandleAgents(args)
	case cli.CmdBlog:
		err = cli.HandleBlog(args)
	case cli.CmdLibrary:
		err = cli.HandleLibrary(args)
	case cli.CmdPapers:
		err = cli.HandlePapers(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdWhoami:
		err = cli.HandleWhoami(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdSetup:
		err = cli.HandleSetup(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		err = runTUI(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI builds and runs the full-screen chat interface.
func runTUI(args cli.Args) error {
	if err := cli.RequiresTTY("the TUI"); err != nil {
		return err
	}

	cfg := config.Global()
	baseURL := cfg.API.BaseURL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}
	client := api.NewClient(baseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)

	if args.AgentType != "" {
		cfg.Chat.DefaultAgentType = args.AgentType
	}

	opts := chat.Options{
		Client:  client,
		Config:  cfg,
		Theme:   styles.NewTheme(cfg.UI.Theme),
		Version: cli.Version,
	}

	if cfg.Chat.SaveConversations {
		if store, err := storage.NewConversationStore(); err == nil {
			opts.Conversations = store
		}
	}
	if papers, err := storage.NewPaperStore(); err == nil {
		opts.Papers = papers
	}
	if manager, err := session.NewManager(); err == nil {
		if sess, err := manager.Current(); err == nil {
			opts.UserName = sess.User.Name
		}
	}

	p := tea.NewProgram(chat.New(opts), tea.WithAltScreen())
	chat.SetProgram(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
