// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_Modes(t *testing.T) {
	for _, mode := range []string{"dark", "light", "auto", ""} {
		theme := NewTheme(mode)
		if theme == nil {
			t.Fatalf("NewTheme(%q) returned nil", mode)
		}
	}
}

func TestTheme_BadgeRenders(t *testing.T) {
	theme := NewTheme("dark")
	out := theme.ToolsBadge.Render("Tools Used")
	if out == "" {
		t.Error("ToolsBadge rendered empty")
	}
}
