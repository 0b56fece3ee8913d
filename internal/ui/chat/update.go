// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/research"
	"github.com/shahryar908/agentify-sub000/internal/storage"
)

// errNoAgents is shown when submit happens before any agent is available.
var errNoAgents = errors.New("no agents available, check that the backend is running")

// commandTimeout bounds the non-streaming startup requests. Streaming
// requests carry their own timeout inside the API client.
const commandTimeout = 30 * time.Second

func newCommandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AgentsLoadedMsg:
		m.agents = msg.Agents
		if agent := m.activeAgentInfo(); agent != nil {
			m.statusBar.SetAgent(agent.AgentType, agent.Name)
		}
		return m, nil

	case HealthMsg:
		m.connected = msg.Connected
		m.statusBar.SetConnected(msg.Connected)
		return m, nil

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamTokenMsg:
		// Tokens accumulate in the buffer; the tick cadence drains it so a
		// fast stream does not force a render per token.
		if msg.MessageID == m.streamingMsgID {
			m.streamingBuffer.Write(msg.Token)
		}
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick()

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case ResearchChunkMsg:
		return m.handleResearchChunk(msg)

	case ResearchDoneMsg:
		return m.handleResearchDone()

	case ConversationSavedMsg:
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

// handleResize propagates the new terminal size to every component.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - 5
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}
	m.input.Width = msg.Width - 6
	m.statusBar.SetWidth(msg.Width)
	m.welcome.SetSize(msg.Width, msg.Height)
	m.errorBanner.SetWidth(msg.Width)

	m.refreshViewport()
	return m
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.cancelMgr.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		return m.handleCancel()

	case key.Matches(msg, m.keyMap.Research):
		if m.state == StateWelcome || m.state == StateChat {
			m.state = StateResearch
			m.input.Placeholder = "Research topic..."
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Agent):
		return m.cycleAgent(), nil

	case key.Matches(msg, m.keyMap.Clear):
		m.conversation.Clear()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.Retry):
		if m.state == StateError {
			return m.retryLast()
		}
	}

	// Viewport scrolling only applies outside the input's printable keys.
	switch {
	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleCancel stops an in-flight stream or dismisses the error screen.
func (m Model) handleCancel() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateError:
		m.state = StateChat
		m.errorBanner.SetError(nil)
		if m.conversation.MessageCount() == 0 {
			m.state = StateWelcome
		}
	case StateResearch:
		if m.tracker != nil && !m.tracker.Done() {
			m.cancelMgr.cancel()
			m.spinner.Stop()
		}
		m.tracker = nil
		m.state = StateChat
		m.input.Placeholder = "Type a message..."
		if m.conversation.MessageCount() == 0 {
			m.state = StateWelcome
		}
	default:
		if m.streamingMsgID != "" {
			m.cancelMgr.cancel()
			m.finalizeStreamingMessage()
			m.spinner.Stop()
		}
	}
	return m, nil
}

// cycleAgent advances to the next agent in the deduplicated list.
func (m Model) cycleAgent() Model {
	if len(m.agents) == 0 {
		return m
	}
	m.activeAgent = (m.activeAgent + 1) % len(m.agents)
	agent := m.agents[m.activeAgent]
	m.statusBar.SetAgent(agent.AgentType, agent.Name)
	return m
}

// handleSubmit dispatches the input either as a chat message or a research
// topic, depending on the current mode.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.streamingMsgID != "" {
		return m, nil
	}

	agent := m.activeAgentInfo()
	if agent == nil {
		m.errorBanner.SetError(errNoAgents)
		m.state = StateError
		return m, nil
	}

	m.input.SetValue("")

	if m.state == StateResearch {
		return m.startResearch(agent.ID, text)
	}
	return m.startChat(agent.ID, text)
}

// =============================================================================
// CHAT STREAMING
// =============================================================================

func (m Model) startChat(agentID, text string) (tea.Model, tea.Cmd) {
	m.state = StateChat
	m.lastInput = text
	m.lastResearch = false

	m.conversation.AddUserMessage(text)
	streaming := m.conversation.AddStreamingAgentMessage()
	m.streamingMsgID = streaming.ID
	m.streamingBuffer.Reset()
	m.refreshViewport()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	go func() {
		if p := currentProgram(); p != nil {
			NewStreamRunner(p, m.client).RunChat(ctx, agentID, text, streaming.ID)
		}
	}()

	return m, tea.Batch(m.spinner.Start(), streamTickCmd())
}

func (m Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}
	return m, streamTickCmd()
}

// handleStreamTick drains the token buffer into the streaming message and
// schedules the next tick while a stream is active.
func (m Model) handleStreamTick() (tea.Model, tea.Cmd) {
	if m.streamingMsgID == "" {
		return m, nil
	}

	if content, ok := m.streamingBuffer.Flush(); ok {
		if last := m.conversation.LastMessage(); last != nil && last.ID == m.streamingMsgID {
			last.AppendToken(content)
			m.spinner.Stop()
		}
		m.refreshViewport()
	}
	return m, streamTickCmd()
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	m.finalizeStreamingMessage()
	m.spinner.Stop()
	m.cancelMgr.cancel()
	m.refreshViewport()

	if m.cfg.Chat.SaveConversations && m.convStore != nil {
		return m, saveConversationCmd(m.convStore, m)
	}
	return m, nil
}

func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != "" && msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	m.finalizeStreamingMessage()
	m.spinner.Stop()
	m.cancelMgr.cancel()

	if m.tracker != nil && !m.tracker.Done() {
		// A transport failure mid-research marks every step failed.
		m.tracker.Apply(api.StreamChunk{Type: api.ChunkTypeError, Content: msg.Error.Error()})
	}

	m.errorBanner.SetError(msg.Error)
	m.state = StateError
	return m, nil
}

// finalizeStreamingMessage force-flushes buffered tokens and closes out the
// streaming message.
func (m *Model) finalizeStreamingMessage() {
	if m.streamingMsgID == "" {
		return
	}
	if content, ok := m.streamingBuffer.ForceFlush(); ok {
		if last := m.conversation.LastMessage(); last != nil && last.ID == m.streamingMsgID {
			last.AppendToken(content)
		}
	}
	if last := m.conversation.LastMessage(); last != nil && last.ID == m.streamingMsgID {
		last.FinalizeStream()
	}
	m.streamingMsgID = ""
}

// =============================================================================
// RESEARCH STREAMING
// =============================================================================

func (m Model) startResearch(agentID, topic string) (tea.Model, tea.Cmd) {
	m.state = StateResearch
	m.lastInput = topic
	m.lastResearch = true
	m.lastTopic = topic
	m.tracker = research.NewTracker(topic)

	m.conversation.AddUserMessage(topic)
	streaming := m.conversation.AddStreamingAgentMessage()
	m.streamingMsgID = streaming.ID
	m.streamingBuffer.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	go func() {
		if p := currentProgram(); p != nil {
			NewStreamRunner(p, m.client).RunResearch(ctx, agentID, topic, streaming.ID)
		}
	}()

	return m, tea.Batch(m.spinner.Start(), streamTickCmd())
}

func (m Model) handleResearchChunk(msg ResearchChunkMsg) (tea.Model, tea.Cmd) {
	if m.tracker == nil || msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	m.tracker.Apply(msg.Chunk)
	m.spinner.Stop()
	return m, nil
}

func (m Model) handleResearchDone() (tea.Model, tea.Cmd) {
	m.finalizeStreamingMessage()
	m.spinner.Stop()
	m.cancelMgr.cancel()

	var cmds []tea.Cmd
	if m.tracker != nil && m.tracker.Paper != nil && m.paperStore != nil {
		paper := *m.tracker.Paper
		store := m.paperStore
		cmds = append(cmds, func() tea.Msg {
			// Persist the new paper at the head of the recent list.
			_ = store.Add(paper)
			return nil
		})
	}
	if m.cfg.Chat.SaveConversations && m.convStore != nil {
		cmds = append(cmds, saveConversationCmd(m.convStore, m))
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// RETRY
// =============================================================================

// retryLast re-runs the last failed request. Invoked only by the user from
// the error screen.
func (m Model) retryLast() (tea.Model, tea.Cmd) {
	if m.lastInput == "" {
		m.state = StateChat
		m.errorBanner.SetError(nil)
		return m, nil
	}

	agent := m.activeAgentInfo()
	if agent == nil {
		return m, nil
	}

	m.errorBanner.SetError(nil)
	if m.lastResearch {
		m.state = StateResearch
		return m.startResearch(agent.ID, m.lastInput)
	}
	m.state = StateChat
	return m.startChat(agent.ID, m.lastInput)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// saveConversationCmd snapshots the conversation and saves it off-loop.
func saveConversationCmd(store *storage.ConversationStore, m Model) tea.Cmd {
	stored := storage.FromConversation(m.conversation)
	return func() tea.Msg {
		id, err := store.Save(stored)
		return ConversationSavedMsg{ID: id, Error: err}
	}
}
