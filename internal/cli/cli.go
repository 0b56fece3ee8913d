// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and top-level command dispatch for agentify.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdResearch
	CmdAgents
	CmdBlog
	CmdLibrary
	CmdPapers
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdConfig
	CmdSetup
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet     bool
	Verbose   bool
	JSON      bool
	AgentType string
	APIURL    string

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after flag parsing
	Raw []string

	// Options holds command-specific named options (e.g. --category, --page)
	Options map[string]string
}

const usageText = `agentify %s - AI agent platform client

Agentify talks to an agentify backend to chat with AI agents, run the
autonomous research pipeline, and manage the blog.

Usage:
  agentify                     Start TUI (default)
  agentify ask "question"      Ask a single question
  agentify chat                Interactive chat REPL
  agentify research "topic"    Run the research pipeline
  agentify agents [subcommand] Agent management
  agentify blog [subcommand]   Blog management
  agentify library [subcommand] Local document library
  agentify papers [list|clear] Recent research papers
  agentify login               Log in (mock session)
  agentify logout              Log out
  agentify whoami              Show current session
  agentify config [show|get|set|path] Configuration
  agentify setup               First-run wizard
  agentify status, s           Backend and local status
  agentify version             Show version
  agentify help                Show this help

Agent Commands:
  agentify agents list              List agents (one per type)
  agentify agents demo              Provision the demo agent set
  agentify agents create <type>     Create an agent (math, intelligent, autonomous)
  agentify agents delete <id>       Delete an agent
  agentify agents tools <id>        List an agent's tools
  agentify agents clear <id>        Clear an agent's conversation history

Blog Commands:
  agentify blog list                List posts
    --query TEXT                    Full-text search
    --category NAME                 Filter by category
    --tags a,b,c                    Filter by tags
    --agent-type TYPE               Filter by authoring agent type
    --published true|false          Filter by published state
    --featured true|false           Filter by featured state
    --page N --page-size N          Pagination
    --sort-by FIELD --sort-order asc|desc
  agentify blog show <slug>         Show one post
  agentify blog create              Create a post from stdin (JSON)
  agentify blog delete <slug>       Delete a post
  agentify blog categories          List categories
  agentify blog tags                List tags
  agentify blog stats               Show blog statistics

Library Commands:
  agentify library search <query>   Full-text search over indexed documents
  agentify library index <dir>      Index a directory of documents
  agentify library watch [dir]      Watch a directory, indexing new files
  agentify library stats            Show index statistics

Global Flags:
  -q, --quiet            Suppress non-essential output
  -v, --verbose          Verbose output
  --json                 JSON output where supported
  --agent TYPE           Agent type to use (math, intelligent, autonomous)
  --api-url URL          Override the backend URL

Examples:
  agentify ask "What is 12 * 7?"
  agentify ask --agent intelligent "Summarize the latest ML papers"
  agentify research "transformer interpretability"
  agentify blog list --category ai --published true
  agentify library search "attention mechanism"
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("agentify version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments (without the program name) and
// returns the command and its args.
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "research":
		args.Query = strings.Join(remaining, " ")
		return CmdResearch, args

	case "agents", "agent":
		parseSubcommand(&args, remaining)
		return CmdAgents, args

	case "blog":
		parseSubcommand(&args, remaining)
		return CmdBlog, args

	case "library", "lib":
		parseSubcommand(&args, remaining)
		return CmdLibrary, args

	case "papers", "paper":
		parseSubcommand(&args, remaining)
		return CmdPapers, args

	case "login":
		return CmdLogin, args

	case "logout":
		return CmdLogout, args

	case "whoami":
		return CmdWhoami, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "setup":
		return CmdSetup, args

	case "status", "s":
		return CmdStatus, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown word: treat the whole line as an ask query.
		args.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags extracts global flags and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	args := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--agent", "--agent-type":
			if i+1 < len(argv) {
				i++
				args.AgentType = argv[i]
			}
		case "--api-url":
			if i+1 < len(argv) {
				i++
				args.APIURL = argv[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--agent="):
				args.AgentType = strings.TrimPrefix(arg, "--agent=")
			case strings.HasPrefix(arg, "--api-url="):
				args.APIURL = strings.TrimPrefix(arg, "--api-url=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// parseSubcommand pulls the first positional word into Subcommand and
// collects --key value pairs into Options. Remaining positionals land in
// Raw.
func parseSubcommand(args *Args, remaining []string) {
	var positional []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]
		switch {
		case strings.HasPrefix(arg, "--"):
			keyVal := strings.TrimPrefix(arg, "--")
			if eq := strings.Index(keyVal, "="); eq >= 0 {
				args.Options[keyVal[:eq]] = keyVal[eq+1:]
			} else if i+1 < len(remaining) && !strings.HasPrefix(remaining[i+1], "--") {
				args.Options[keyVal] = remaining[i+1]
				i++
			} else {
				args.Options[keyVal] = "true"
			}
		default:
			positional = append(positional, arg)
		}
		i++
	}

	if len(positional) > 0 {
		args.Subcommand = positional[0]
		positional = positional[1:]
	}
	args.Raw = positional
}

// parseConfigArgs handles "config [show|get|set|path] [key] [value]".
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
	args.Raw = remaining[1:]
}

// HandleVersion handles the version command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the help command.
func HandleHelp() {
	PrintUsage()
}
