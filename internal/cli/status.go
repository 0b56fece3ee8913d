// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Environment summary: backend, config, session, library.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shahryar908/agentify-sub000/internal/config"
	"github.com/shahryar908/agentify-sub000/internal/library"
	"github.com/shahryar908/agentify-sub000/internal/session"
	"github.com/shahryar908/agentify-sub000/internal/storage"
)

// statusReport is the JSON shape of the status output.
type statusReport struct {
	Version      string `json:"version"`
	Backend      string `json:"backend"`
	Connected    bool   `json:"connected"`
	AgentType    string `json:"agent_type"`
	Theme        string `json:"theme"`
	User         string `json:"user,omitempty"`
	LibraryDocs  int    `json:"library_docs"`
	RecentPapers int    `json:"recent_papers"`
}

// HandleStatus prints a one-screen summary of the local setup.
func HandleStatus(args Args) error {
	cfg := config.Global()
	client := newClient(args)

	report := statusReport{
		Version:   Version,
		Backend:   client.BaseURL(),
		AgentType: cfg.Chat.DefaultAgentType,
		Theme:     cfg.UI.Theme,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Health(ctx); err == nil {
		report.Connected = true
	}

	if manager, err := session.NewManager(); err == nil {
		if sess, err := manager.Current(); err == nil {
			report.User = sess.User.Name
		}
	}

	if path, err := library.DefaultPath(); err == nil {
		if lib, err := library.Open(path); err == nil {
			if stats, err := lib.Stats(); err == nil {
				report.LibraryDocs = stats.Papers + stats.Posts + stats.Files
			}
			lib.Close()
		}
	}

	if store, err := storage.NewPaperStore(); err == nil {
		report.RecentPapers = len(store.Recent())
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	fmt.Println(TitleStyle.Render("Agentify Status"))
	fmt.Printf("%s%s\n", LabelStyle.Render("Version"), report.Version)
	fmt.Printf("%s%s\n", LabelStyle.Render("Backend"), report.Backend)
	if report.Connected {
		fmt.Printf("%s%s\n", LabelStyle.Render("Connection"), SuccessStyle.Render("connected"))
	} else {
		fmt.Printf("%s%s\n", LabelStyle.Render("Connection"), ErrorStyle.Render("unreachable"))
	}
	fmt.Printf("%s%s\n", LabelStyle.Render("Agent type"), report.AgentType)
	fmt.Printf("%s%s\n", LabelStyle.Render("Theme"), report.Theme)
	if report.User != "" {
		fmt.Printf("%s%s\n", LabelStyle.Render("User"), report.User)
	} else {
		fmt.Printf("%s%s\n", LabelStyle.Render("User"), DimStyle.Render("not logged in"))
	}
	fmt.Printf("%s%d\n", LabelStyle.Render("Library docs"), report.LibraryDocs)
	fmt.Printf("%s%d\n", LabelStyle.Render("Recent papers"), report.RecentPapers)
	return nil
}
