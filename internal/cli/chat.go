// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for the agentify CLI.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/config"
	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/storage"
	"github.com/shahryar908/agentify-sub000/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatInput provides line editing and persistent input history.
// USABILITY: Arrow keys navigate history like a readline shell.
type chatInput struct {
	line        *liner.State
	historyFile string
}

func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	ci := &chatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	ci.loadHistory()
	return ci
}

func (c *chatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// readInput reads one line with history support.
func (c *chatInput) readInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// close saves history (0600) and releases the terminal.
func (c *chatInput) close() {
	if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// chatSession holds the state for one REPL session.
type chatSession struct {
	client       *api.Client
	agents       []api.AgentInfo
	agent        *api.AgentInfo
	conversation *model.Conversation
	store        *storage.ConversationStore
	input        *chatInput
	quiet        bool
	startTime    time.Time
	cancelFunc   context.CancelFunc
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	client := newClient(args)
	ctx := context.Background()

	agent, err := resolveAgent(ctx, client, args)
	if err != nil {
		return err
	}

	session := &chatSession{
		client:       client,
		agents:       client.EnsureDemoAgents(ctx),
		agent:        agent,
		conversation: model.NewConversation(agent.ID, agent.AgentType),
		input:        newChatInput(),
		quiet:        args.Quiet,
		startTime:    time.Now(),
	}
	if config.Global().Chat.SaveConversations {
		if store, err := storage.NewConversationStore(); err == nil {
			session.store = store
		}
	}
	defer session.input.close()

	if !session.quiet {
		printChatWelcome(session)
	}

	// First Ctrl+C cancels the in-flight request rather than exiting.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigChan {
			if session.cancelFunc != nil {
				session.cancelFunc()
				session.cancelFunc = nil
				fmt.Fprintln(os.Stderr, "\n"+WarningStyle.Render("[Cancelled]"))
			}
		}
	}()
	defer signal.Stop(sigChan)

	for {
		input, err := session.input.readInput(HighlightStyle.Render("agentify> "))
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C) and EOF both exit cleanly.
			fmt.Println()
			session.finish()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := session.handleSlashCommand(input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				session.finish()
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			session.finish()
			return nil
		}

		session.sendMessage(input)
	}
}

// sendMessage streams one exchange to the terminal.
func (s *chatSession) sendMessage(text string) {
	s.conversation.AddUserMessage(text)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFunc = cancel
	defer func() {
		cancel()
		s.cancelFunc = nil
	}()

	chunks, err := s.client.StreamChat(ctx, s.agent.ID, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		return
	}

	var reply strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			fmt.Fprintf(os.Stderr, "\n%s %v\n", ErrorStyle.Render("[Error]"), chunk.Err)
			return
		}
		if chunk.Type == api.ChunkTypeContent && chunk.Content != "" {
			fmt.Print(chunk.Content)
			reply.WriteString(chunk.Content)
		}
	}
	fmt.Println()

	s.conversation.AddAgentMessage(reply.String(), false)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes REPL commands. Returns false to exit.
func (s *chatSession) handleSlashCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/help", "/?":
		printChatHelp()
		return true, nil

	case "/clear":
		s.conversation.Clear()
		if err := s.client.ClearHistory(context.Background(), s.agent.ID); err != nil {
			return true, fmt.Errorf("clearing backend history: %w", err)
		}
		fmt.Println(DimStyle.Render("Conversation cleared."))
		return true, nil

	case "/agent":
		if len(fields) < 2 {
			fmt.Printf("Current agent: %s (%s)\n", s.agent.Name, s.agent.AgentType)
			for _, a := range s.agents {
				fmt.Printf("  %s  %s\n", util.TitleLabel(a.AgentType), DimStyle.Render(a.ID))
			}
			return true, nil
		}
		return true, s.switchAgent(fields[1])

	case "/history":
		s.printHistory()
		return true, nil

	case "/save":
		if s.store == nil {
			return true, fmt.Errorf("conversation saving is disabled")
		}
		id, err := s.store.Save(storage.FromConversation(s.conversation))
		if err != nil {
			return true, err
		}
		fmt.Println(SuccessStyle.Render("Saved: ") + id)
		return true, nil

	case "/quit", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command %s, try /help", cmd)
	}
}

// switchAgent changes the active agent by type.
func (s *chatSession) switchAgent(agentType string) error {
	for i := range s.agents {
		if s.agents[i].AgentType == agentType {
			s.agent = &s.agents[i]
			s.conversation = model.NewConversation(s.agent.ID, s.agent.AgentType)
			fmt.Println(SuccessStyle.Render("Switched to ") + s.agent.Name)
			return nil
		}
	}
	return fmt.Errorf("no agent of type %q, options: math, intelligent, autonomous", agentType)
}

func (s *chatSession) printHistory() {
	if s.conversation.MessageCount() == 0 {
		fmt.Println(DimStyle.Render("No messages yet."))
		return
	}
	for _, msg := range s.conversation.Messages {
		label := msg.Role.DisplayName()
		fmt.Printf("%s %s\n", HighlightStyle.Render(label+":"), msg.Preview(120))
	}
}

// finish saves the conversation if enabled and prints a session summary.
func (s *chatSession) finish() {
	if s.store != nil && s.conversation.MessageCount() > 0 {
		if _, err := s.store.Save(storage.FromConversation(s.conversation)); err == nil && !s.quiet {
			fmt.Println(DimStyle.Render("Conversation saved."))
		}
	}
	if !s.quiet {
		elapsed := time.Since(s.startTime).Round(time.Second)
		fmt.Printf("%s %d messages in %s\n",
			DimStyle.Render("Session:"), s.conversation.MessageCount(), elapsed)
	}
}

func printChatWelcome(s *chatSession) {
	fmt.Println(TitleStyle.Render("agentify chat"))
	fmt.Printf("%s%s\n", LabelStyle.Render("Agent"), s.agent.Name)
	fmt.Printf("%s%s\n", LabelStyle.Render("Backend"), s.client.BaseURL())
	fmt.Println(DimStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
}

func printChatHelp() {
	fmt.Println(`Commands:
  /help              Show this help
  /agent [type]      Show or switch the active agent
  /history           Show the conversation so far
  /clear             Clear conversation (local and backend)
  /save              Save the conversation now
  /quit              Exit`)
}
