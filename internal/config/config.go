// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// agentify client.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Locations (in order of precedence):
//   - AGENTIFY_* environment variables
//   - ~/.agentify/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/shahryar908/agentify-sub000/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete agentify configuration.
type Config struct {
	Version string `toml:"version"`

	// API is the backend connection configuration.
	API APIConfig `toml:"api"`

	// Chat configures conversation behavior.
	Chat ChatConfig `toml:"chat"`

	// UI configures terminal rendering.
	UI UIConfig `toml:"ui"`

	// Library configures the local paper/post library.
	Library LibraryConfig `toml:"library"`
}

// APIConfig is the backend connection configuration.
type APIConfig struct {
	// BaseURL is the Agentify backend base URL.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the fixed per-request deadline in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// ChatConfig configures conversation behavior.
type ChatConfig struct {
	// DefaultAgentType selects which agent new chats use: "math",
	// "intelligent", or "autonomous".
	DefaultAgentType string `toml:"default_agent_type"`
	// SaveConversations persists transcripts locally when true.
	SaveConversations bool `toml:"save_conversations"`
	// MaxConversations bounds the local transcript store.
	MaxConversations int `toml:"max_conversations"`
}

// UIConfig configures terminal rendering.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto".
	Theme string `toml:"theme"`
	// Markdown enables glamour rendering of agent replies on TTYs.
	Markdown bool `toml:"markdown"`
	// CompactMode reduces padding in the TUI.
	CompactMode bool `toml:"compact_mode"`
}

// LibraryConfig configures the local searchable library.
type LibraryConfig struct {
	// DownloadsDir is watched for new papers to index.
	// Default: ~/.agentify/downloads
	DownloadsDir string `toml:"downloads_dir"`
	// AutoIndex enables the fsnotify watcher.
	AutoIndex bool `toml:"auto_index"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// CurrentVersion is the config schema version.
const CurrentVersion = "1"

// Default returns the built-in default configuration.
func Default() *Config {
	downloads := ""
	if home, err := os.UserHomeDir(); err == nil {
		downloads = filepath.Join(home, ".agentify", "downloads")
	}
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL:     "http://localhost:8002",
			TimeoutSecs: 30,
		},
		Chat: ChatConfig{
			DefaultAgentType:  "math",
			SaveConversations: true,
			MaxConversations:  100,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
		Library: LibraryConfig{
			DownloadsDir: downloads,
			AutoIndex:    true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the agentify config directory (~/.agentify).
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".agentify"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the config directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file, fills defaults, and applies environment
// overrides. A missing file is not an error; defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if err := loadTOML(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a config from an explicit path. The file must exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err := loadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTOML merges a TOML file into cfg. A missing file is skipped.
func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid TOML in %s: %w", path, err)
	}
	return nil
}

// fillDefaults patches zero values left by a sparse config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.Chat.DefaultAgentType == "" {
		c.Chat.DefaultAgentType = def.Chat.DefaultAgentType
	}
	if c.Chat.MaxConversations <= 0 {
		c.Chat.MaxConversations = def.Chat.MaxConversations
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Library.DownloadsDir == "" {
		c.Library.DownloadsDir = def.Library.DownloadsDir
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies AGENTIFY_* environment variables on top of
// the loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AGENTIFY_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("AGENTIFY_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("AGENTIFY_AGENT_TYPE"); v != "" {
		c.Chat.DefaultAgentType = v
	}
	if v := os.Getenv("AGENTIFY_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("AGENTIFY_DOWNLOADS_DIR"); v != "" {
		c.Library.DownloadsDir = v
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config to the default path atomically.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the config as TOML to an explicit path.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# agentify configuration\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(b.String()), 0600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// validAgentTypes for chat.default_agent_type.
var validAgentTypes = map[string]bool{"math": true, "intelligent": true, "autonomous": true}

// validThemes for ui.theme.
var validThemes = map[string]bool{"dark": true, "light": true, "auto": true}

// Validate checks field-level constraints.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return ValidationError{Field: "api.base_url", Message: "not a valid URL"}
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return ValidationError{Field: "api.base_url", Message: "must start with http:// or https://"}
	}
	if c.API.TimeoutSecs <= 0 || c.API.TimeoutSecs > 600 {
		return ValidationError{Field: "api.timeout_secs", Message: "must be between 1 and 600"}
	}
	if !validAgentTypes[c.Chat.DefaultAgentType] {
		return ValidationError{Field: "chat.default_agent_type", Message: "must be math, intelligent, or autonomous"}
	}
	if !validThemes[c.UI.Theme] {
		return ValidationError{Field: "ui.theme", Message: "must be dark, light, or auto"}
	}
	return nil
}

// =============================================================================
// KEY ACCESS
// =============================================================================

// Get returns a config value by dotted key, for the config CLI.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout_secs":
		return strconv.Itoa(c.API.TimeoutSecs), nil
	case "chat.default_agent_type":
		return c.Chat.DefaultAgentType, nil
	case "chat.save_conversations":
		return strconv.FormatBool(c.Chat.SaveConversations), nil
	case "chat.max_conversations":
		return strconv.Itoa(c.Chat.MaxConversations), nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.markdown":
		return strconv.FormatBool(c.UI.Markdown), nil
	case "ui.compact_mode":
		return strconv.FormatBool(c.UI.CompactMode), nil
	case "library.downloads_dir":
		return c.Library.DownloadsDir, nil
	case "library.auto_index":
		return strconv.FormatBool(c.Library.AutoIndex), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a config value by dotted key, validating the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api.base_url":
		c.API.BaseURL = value
	case "api.timeout_secs":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", key, value)
		}
		c.API.TimeoutSecs = secs
	case "chat.default_agent_type":
		c.Chat.DefaultAgentType = value
	case "chat.save_conversations":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		c.Chat.SaveConversations = b
	case "chat.max_conversations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", key, value)
		}
		c.Chat.MaxConversations = n
	case "ui.theme":
		c.UI.Theme = value
	case "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		c.UI.Markdown = b
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		c.UI.CompactMode = b
	case "library.downloads_dir":
		c.Library.DownloadsDir = value
	case "library.auto_index":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		c.Library.AutoIndex = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return c.Validate()
}

// AllKeys lists the settable config keys for help output.
func AllKeys() []string {
	return []string{
		"api.base_url",
		"api.timeout_secs",
		"chat.default_agent_type",
		"chat.save_conversations",
		"chat.max_conversations",
		"ui.theme",
		"ui.markdown",
		"ui.compact_mode",
		"library.downloads_dir",
		"library.auto_index",
	}
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide config, loading it on first use.
// Load failures fall back to defaults so the UI can still start.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global config.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
