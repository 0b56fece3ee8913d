// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/config"
	"github.com/shahryar908/agentify-sub000/internal/model"
	"github.com/shahryar908/agentify-sub000/internal/research"
	"github.com/shahryar908/agentify-sub000/internal/storage"
	"github.com/shahryar908/agentify-sub000/internal/ui/components"
	"github.com/shahryar908/agentify-sub000/internal/ui/styles"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// State is the current view of the TUI.
type State int

const (
	StateWelcome  State = iota // Landing screen, no messages yet
	StateChat                  // Normal chat view
	StateResearch              // Research pipeline view
	StateError                 // Error screen with retry hint
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the agentify TUI.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	// Backend
	client    *api.Client
	cfg       *config.Config
	connected bool

	// Agents
	agents      []api.AgentInfo
	activeAgent int

	// Conversation
	conversation   *model.Conversation
	convStore      *storage.ConversationStore
	streamingMsgID string

	// Research
	tracker    *research.Tracker
	paperStore *storage.PaperStore
	lastTopic  string

	// Streaming plumbing. cancelMgr and streamingBuffer are pointers so
	// Bubble Tea's value copies of the Model share them.
	streamingBuffer *StreamingBuffer
	cancelMgr       *cancelManager
	runner          *StreamRunner

	// Retry state for the error screen
	lastInput    string
	lastResearch bool

	// UI components
	viewport    viewport.Model
	input       textinput.Model
	spinner     components.Spinner
	statusBar   *components.StatusBar
	welcome     components.Welcome
	errorBanner *components.ErrorBanner
	keyMap      KeyMap

	version string
}

// programRef holds the running Bubble Tea program so stream goroutines can
// send messages into it. Set once from main after tea.NewProgram.
var (
	programMu  sync.Mutex
	programRef *tea.Program
)

// SetProgram registers the running program for stream delivery.
func SetProgram(p *tea.Program) {
	programMu.Lock()
	defer programMu.Unlock()
	programRef = p
}

func currentProgram() *tea.Program {
	programMu.Lock()
	defer programMu.Unlock()
	return programRef
}

// Options configures the TUI model. Stores may be nil, which disables
// persistence for the session.
type Options struct {
	Client        *api.Client
	Config        *config.Config
	Theme         *styles.Theme
	Version       string
	Conversations *storage.ConversationStore
	Papers        *storage.PaperStore
	UserName      string
}

// New creates the TUI model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	welcome := components.NewWelcome(opts.Theme)
	welcome.SetVersion(opts.Version)
	welcome.SetBackend(opts.Client.BaseURL())
	welcome.SetAgentType(opts.Config.Chat.DefaultAgentType)
	welcome.SetUserName(opts.UserName)

	return Model{
		state:           StateWelcome,
		theme:           opts.Theme,
		width:           80,
		height:          24,
		client:          opts.Client,
		cfg:             opts.Config,
		conversation:    model.NewConversation("", opts.Config.Chat.DefaultAgentType),
		convStore:       opts.Conversations,
		paperStore:      opts.Papers,
		streamingBuffer: NewStreamingBuffer(),
		cancelMgr:       newCancelManager(),
		viewport:        vp,
		input:           ti,
		spinner:         components.NewSpinner("Thinking"),
		statusBar:       components.NewStatusBar(opts.Theme),
		welcome:         welcome,
		errorBanner:     components.NewErrorBanner(opts.Theme),
		keyMap:          DefaultKeyMap(),
		version:         opts.Version,
	}
}

// Init loads the agent list and checks backend health.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadAgentsCmd(m.client),
		healthCmd(m.client),
		textinput.Blink,
	)
}

// activeAgentInfo returns the currently selected agent, or nil before the
// agent list has loaded.
func (m *Model) activeAgentInfo() *api.AgentInfo {
	if len(m.agents) == 0 {
		return nil
	}
	if m.activeAgent < 0 || m.activeAgent >= len(m.agents) {
		m.activeAgent = 0
	}
	return &m.agents[m.activeAgent]
}

// =============================================================================
// STARTUP COMMANDS
// =============================================================================

// loadAgentsCmd fetches agents, provisioning the demo set when none exist.
func loadAgentsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := newCommandContext()
		defer cancel()

		return AgentsLoadedMsg{Agents: client.EnsureDemoAgents(ctx)}
	}
}

// healthCmd probes the backend health endpoint.
func healthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := newCommandContext()
		defer cancel()

		_, err := client.Health(ctx)
		return HealthMsg{Connected: err == nil}
	}
}
