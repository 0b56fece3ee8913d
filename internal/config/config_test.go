// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	if cfg.API.BaseURL != "http://localhost:8002" {
		t.Errorf("BaseURL = %q, want localhost backend", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.API.TimeoutSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, true},
		{"huge timeout", func(c *Config) { c.API.TimeoutSecs = 9999 }, true},
		{"bad agent type", func(c *Config) { c.Chat.DefaultAgentType = "wizard" }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
		{"https ok", func(c *Config) { c.API.BaseURL = "https://api.example.com" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://agents.example.com"
	cfg.Chat.DefaultAgentType = "autonomous"
	cfg.UI.Theme = "dark"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.API.BaseURL != "https://agents.example.com" {
		t.Errorf("BaseURL = %q, want round-tripped value", loaded.API.BaseURL)
	}
	if loaded.Chat.DefaultAgentType != "autonomous" {
		t.Errorf("DefaultAgentType = %q, want autonomous", loaded.Chat.DefaultAgentType)
	}
}

func TestConfig_SparseFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	sparse := "[api]\nbase_url = \"http://10.0.0.5:8002\"\n"
	if err := os.WriteFile(path, []byte(sparse), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:8002" {
		t.Errorf("BaseURL = %q, want file value", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want default 30", cfg.API.TimeoutSecs)
	}
	if cfg.Chat.DefaultAgentType != "math" {
		t.Errorf("DefaultAgentType = %q, want default math", cfg.Chat.DefaultAgentType)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTIFY_API_URL", "http://override:9000")
	t.Setenv("AGENTIFY_AGENT_TYPE", "intelligent")
	t.Setenv("AGENTIFY_API_TIMEOUT", "60")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://override:9000" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Chat.DefaultAgentType != "intelligent" {
		t.Errorf("DefaultAgentType = %q, want env override", cfg.Chat.DefaultAgentType)
	}
	if cfg.API.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d, want 60", cfg.API.TimeoutSecs)
	}
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("ui.theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cfg.Get("ui.theme")
	if err != nil || got != "dark" {
		t.Errorf("Get(ui.theme) = %q, %v; want dark", got, err)
	}

	if err := cfg.Set("chat.default_agent_type", "wizard"); err == nil {
		t.Error("Set accepted an invalid agent type")
	}
	if _, err := cfg.Get("nope.nope"); err == nil {
		t.Error("Get accepted an unknown key")
	}

	// Every advertised key must be readable.
	for _, key := range AllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
		}
	}
}

func TestConfig_GlobalConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg := Global()
			if cfg == nil {
				t.Error("Global returned nil")
			}
		}()
	}
	wg.Wait()
}
