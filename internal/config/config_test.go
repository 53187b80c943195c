// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Timeout() = %v, want 15s", cfg.Timeout())
	}
	if cfg.RevealInterval() != 4*time.Millisecond {
		t.Errorf("RevealInterval() = %v, want 4ms", cfg.RevealInterval())
	}
	if cfg.CloseDelay() != 1200*time.Millisecond {
		t.Errorf("CloseDelay() = %v, want 1.2s", cfg.CloseDelay())
	}
	if cfg.Chat.RevealChunk != 8 {
		t.Errorf("RevealChunk = %d, want 8", cfg.Chat.RevealChunk)
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	t.Setenv("NEXUS_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://nexus.example.edu/"

[chat]
backend = "SQLite"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "https://nexus.example.edu" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.Chat.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", cfg.Chat.Backend, BackendSQLite)
	}
	if cfg.API.TimeoutSecs != 15 {
		t.Errorf("TimeoutSecs = %d, want default 15", cfg.API.TimeoutSecs)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	t.Setenv("NEXUS_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"ui":{"theme":"light","markdown":false}}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.UI.Theme != "light" || cfg.UI.Markdown {
		t.Errorf("UI = %+v", cfg.UI)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "ftp://nexus"
	cfg.Chat.Backend = "redis"
	cfg.UI.Theme = "neon"
	cfg.Attendance.ScanFPS = 0

	err := cfg.Validate()
	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidateErrors, got %v", err)
	}

	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	for _, want := range []string{"api.base_url", "chat.backend", "ui.theme", "attendance.scan_fps"} {
		if !fields[want] {
			t.Errorf("expected validation error for %s, got %v", want, verrs)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEXUS_API_URL", "https://api.school.test")
	t.Setenv("NEXUS_TIMEOUT_SECS", "30")
	t.Setenv("NEXUS_CHAT_BACKEND", "sqlite")
	t.Setenv("NEXUS_THEME", "dark")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "https://api.school.test" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.API.TimeoutSecs)
	}
	if cfg.Chat.Backend != "sqlite" || cfg.UI.Theme != "dark" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NEXUS_HOME", home)
	t.Setenv("NEXUS_THEME", "light")
	os.Unsetenv("NEXUS_API_URL")
	t.Cleanup(func() { os.Unsetenv("NEXUS_API_URL") })

	env := "NEXUS_API_URL=https://from-dotenv.test\nNEXUS_THEME=dark\n"
	if err := os.WriteFile(filepath.Join(home, ".env"), []byte(env), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://from-dotenv.test" {
		t.Errorf("BaseURL = %q, want value from .env", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, existing env must win over .env", cfg.UI.Theme)
	}
}

func TestLoadReportsBrokenFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NEXUS_HOME", home)
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte("[api\nbroken"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Error("expected load error for broken TOML")
	}
	if cfg == nil || cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	t.Setenv("NEXUS_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Chat.Backend = BackendSQLite
	cfg.Attendance.CloseDelayMs = 500
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Chat.Backend != BackendSQLite || loaded.Attendance.CloseDelayMs != 500 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestGetSetDotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("chat.reveal_chunk", "16"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := cfg.Get("chat.reveal_chunk")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.(int) != 16 {
		t.Errorf("reveal_chunk = %v, want 16", got)
	}

	if err := cfg.Set("ui.markdown", "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.UI.Markdown {
		t.Error("expected markdown disabled")
	}

	if _, err := cfg.Get("chat.nope"); err == nil {
		t.Error("expected error for unknown key")
	}
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
		}
	}
}

func TestChatStorePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NEXUS_HOME", home)

	cfg := Default()
	if p, _ := cfg.ChatStorePath(); p != home {
		t.Errorf("file backend path = %q, want %q", p, home)
	}
	cfg.Chat.Backend = BackendSQLite
	if p, _ := cfg.ChatStorePath(); p != filepath.Join(home, "nexus.db") {
		t.Errorf("sqlite backend path = %q", p)
	}
}
