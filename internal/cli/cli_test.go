// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"reflect"
	"testing"
)

func TestParse_DefaultIsTUI(t *testing.T) {
	cmd, _ := Parse(nil)
	if cmd != CmdTUI {
		t.Errorf("expected CmdTUI, got %v", cmd)
	}
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"ask", []string{"ask", "what", "is", "2+2"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"research", []string{"research", "quantum", "computing"}, CmdResearch},
		{"agents", []string{"agents", "list"}, CmdAgents},
		{"agent alias", []string{"agent", "list"}, CmdAgents},
		{"blog", []string{"blog", "list"}, CmdBlog},
		{"library", []string{"library", "search", "x"}, CmdLibrary},
		{"lib alias", []string{"lib", "stats"}, CmdLibrary},
		{"papers", []string{"papers"}, CmdPapers},
		{"login", []string{"login"}, CmdLogin},
		{"logout", []string{"logout"}, CmdLogout},
		{"whoami", []string{"whoami"}, CmdWhoami},
		{"config", []string{"config"}, CmdConfig},
		{"setup", []string{"setup"}, CmdSetup},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := Parse(tt.argv)
			if cmd != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParse_AskJoinsQuery(t *testing.T) {
	cmd, args := Parse([]string{"ask", "what", "is", "12", "*", "7?"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "what is 12 * 7?" {
		t.Errorf("unexpected query: %q", args.Query)
	}
}

func TestParse_UnknownWordBecomesAsk(t *testing.T) {
	cmd, args := Parse([]string{"explain", "gradient", "descent"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "explain gradient descent" {
		t.Errorf("unexpected query: %q", args.Query)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := Parse([]string{"-q", "--json", "--agent", "intelligent", "--api-url", "http://host:9000", "ask", "hi"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if !args.Quiet || !args.JSON {
		t.Error("expected quiet and json flags set")
	}
	if args.AgentType != "intelligent" {
		t.Errorf("unexpected agent type: %q", args.AgentType)
	}
	if args.APIURL != "http://host:9000" {
		t.Errorf("unexpected api url: %q", args.APIURL)
	}
}

func TestParse_EqualsFormFlags(t *testing.T) {
	_, args := Parse([]string{"--agent=math", "--api-url=http://x:1", "chat"})
	if args.AgentType != "math" {
		t.Errorf("unexpected agent type: %q", args.AgentType)
	}
	if args.APIURL != "http://x:1" {
		t.Errorf("unexpected api url: %q", args.APIURL)
	}
}

func TestParse_BlogListOptions(t *testing.T) {
	cmd, args := Parse([]string{"blog", "list",
		"--category", "ai", "--published", "true",
		"--tags=ml,nlp", "--page", "2", "--featured"})
	if cmd != CmdBlog {
		t.Fatalf("expected CmdBlog, got %v", cmd)
	}
	if args.Subcommand != "list" {
		t.Errorf("unexpected subcommand: %q", args.Subcommand)
	}
	want := map[string]string{
		"category":  "ai",
		"published": "true",
		"tags":      "ml,nlp",
		"page":      "2",
		"featured":  "true",
	}
	if !reflect.DeepEqual(args.Options, want) {
		t.Errorf("options = %v, want %v", args.Options, want)
	}
}

func TestParse_SubcommandPositionals(t *testing.T) {
	_, args := Parse([]string{"agents", "delete", "agent-42"})
	if args.Subcommand != "delete" {
		t.Errorf("unexpected subcommand: %q", args.Subcommand)
	}
	if len(args.Raw) != 1 || args.Raw[0] != "agent-42" {
		t.Errorf("unexpected raw args: %v", args.Raw)
	}
}

func TestParse_ConfigForms(t *testing.T) {
	_, args := Parse([]string{"config"})
	if args.Subcommand != "show" {
		t.Errorf("bare config should default to show, got %q", args.Subcommand)
	}

	_, args = Parse([]string{"config", "get", "api.base_url"})
	if args.Subcommand != "get" || args.ConfigKey != "api.base_url" {
		t.Errorf("unexpected get parse: %+v", args)
	}

	_, args = Parse([]string{"config", "set", "ui.theme", "dark"})
	if args.Subcommand != "set" || args.ConfigKey != "ui.theme" || args.ConfigVal != "dark" {
		t.Errorf("unexpected set parse: %+v", args)
	}
}

func TestListOptionsFromArgs(t *testing.T) {
	_, args := Parse([]string{"blog", "list",
		"--query", "agents", "--tags", "ml,nlp",
		"--published", "false", "--page", "3", "--page-size", "5",
		"--sort-by", "created_at", "--sort-order", "desc"})

	opts := listOptionsFromArgs(args)
	if opts.Query != "agents" {
		t.Errorf("unexpected query: %q", opts.Query)
	}
	if !reflect.DeepEqual(opts.Tags, []string{"ml", "nlp"}) {
		t.Errorf("unexpected tags: %v", opts.Tags)
	}
	if opts.Published == nil || *opts.Published {
		t.Error("expected published=false filter")
	}
	if opts.Featured != nil {
		t.Error("featured should be unset")
	}
	if opts.Page != 3 || opts.PageSize != 5 {
		t.Errorf("unexpected pagination: page=%d size=%d", opts.Page, opts.PageSize)
	}
	if opts.SortBy != "created_at" || opts.SortOrder != "desc" {
		t.Errorf("unexpected sort: %s %s", opts.SortBy, opts.SortOrder)
	}
}

func TestWrapText(t *testing.T) {
	wrapped := WrapText("one two three four five", 10)
	if len(wrapped) == 0 {
		t.Fatal("expected output")
	}
	for _, line := range splitLines(wrapped) {
		if len(line) > 10 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
