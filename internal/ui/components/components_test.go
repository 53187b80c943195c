// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

func TestConfirmHandleKey(t *testing.T) {
	c := DeleteChatConfirm("abc")
	tests := []struct {
		msg  tea.KeyMsg
		want ConfirmResult
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, ConfirmYes},
		{tea.KeyMsg{Type: tea.KeyEnter}, ConfirmYes},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, ConfirmNo},
		{tea.KeyMsg{Type: tea.KeyEsc}, ConfirmNo},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, ConfirmPending},
	}
	for _, tt := range tests {
		if got := c.HandleKey(tt.msg); got != tt.want {
			t.Errorf("HandleKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestConfirmView(t *testing.T) {
	view := DeleteChatConfirm("abc").View(styles.NewTheme(styles.ModeDark))
	for _, want := range []string{"Delete chat?", "This action cannot be undone."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMarkdownDisabledPassesThrough(t *testing.T) {
	md := NewMarkdown(true, false)
	if got := md.Render("**bold**", 80); got != "**bold**" {
		t.Errorf("Render() = %q, want raw text", got)
	}
	var nilMD *Markdown
	if got := nilMD.Render("x", 80); got != "x" {
		t.Errorf("nil Render() = %q", got)
	}
}

func TestMarkdownRendersAndCaches(t *testing.T) {
	md := NewMarkdown(true, true)
	out := md.Render("A **function** that calls itself.", 60)
	if !strings.Contains(out, "function") || strings.Contains(out, "**") {
		t.Errorf("Render() = %q", out)
	}
	if again := md.Render("A **function** that calls itself.", 60); again != out {
		t.Error("cached render differs")
	}
}

func TestStatusBarDropsHintsWhenNarrow(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	bar := StatusBar{
		Role:    "Student",
		Message: "Saved",
		Keys: []key.Binding{
			key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		},
	}
	wide := bar.View(theme, 200)
	if !strings.Contains(wide, "switch focus") {
		t.Errorf("wide bar missing hints: %q", wide)
	}
	narrow := bar.View(theme, 30)
	if strings.Contains(narrow, "switch focus") || !strings.Contains(narrow, "Saved") {
		t.Errorf("narrow bar = %q", narrow)
	}
}

func TestListAndKeyValues(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	if got := List(theme, []Column{{"Title", 10}}, nil, "No notes yet"); !strings.Contains(got, "No notes yet") {
		t.Errorf("empty list = %q", got)
	}
	got := List(theme, []Column{{"Title", 6}, {"Subject", 8}}, [][]string{{"Binary trees", "DSA"}}, "")
	if !strings.Contains(got, "Binar…") || !strings.Contains(got, "DSA") {
		t.Errorf("list = %q", got)
	}

	kv := KeyValues(theme, []Pair{{"Students", "1,204"}, {"Teachers", "88"}})
	if !strings.Contains(kv, "Students  1,204") {
		t.Errorf("key values = %q", kv)
	}
}
