// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeModes(t *testing.T) {
	if !NewTheme(ModeDark).IsDark {
		t.Error("dark mode should be dark")
	}
	if NewTheme(ModeLight).IsDark {
		t.Error("light mode should not be dark")
	}
	if NewTheme(" DARK ").IsDark != true {
		t.Error("mode should be case and space insensitive")
	}
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width   int
		mode    LayoutMode
		sidebar int
	}{
		{40, LayoutNarrow, 0},
		{80, LayoutMedium, 24},
		{140, LayoutWide, 32},
	}
	theme := NewTheme(ModeDark)
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.mode {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.mode)
		}
		if got := theme.SidebarWidth(); got != tt.sidebar {
			t.Errorf("width %d: SidebarWidth() = %d, want %d", tt.width, got, tt.sidebar)
		}
	}
}

func TestRenderStatusIndicators(t *testing.T) {
	if got := RenderStatus(true, "Attendance marked"); !strings.Contains(got, "[OK]") {
		t.Errorf("RenderStatus(true) = %q, missing indicator", got)
	}
	if got := RenderStatus(false, "Session expired"); !strings.Contains(got, "[X] Session expired") {
		t.Errorf("RenderStatus(false) = %q", got)
	}
	if got := RenderWarning("w"); !strings.Contains(got, "[!]") {
		t.Errorf("RenderWarning = %q", got)
	}
	if got := RenderInfo("i"); !strings.Contains(got, "[i]") {
		t.Errorf("RenderInfo = %q", got)
	}
}
