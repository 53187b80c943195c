// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation(t *testing.T) {
	conv := NewConversation()
	if conv.ID == "" {
		t.Fatal("expected generated ID")
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if conv.Messages == nil || len(conv.Messages) != 0 {
		t.Errorf("Messages = %v, want empty non-nil slice", conv.Messages)
	}

	other := NewConversation()
	if other.ID == conv.ID {
		t.Error("two conversations received the same ID")
	}
}

func TestConversation_AutoTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short message kept whole", "What is recursion?", "What is recursion?"},
		{"long message cut at 30 runes", strings.Repeat("x", 100), strings.Repeat("x", 30)},
		{"multibyte runes counted as characters", strings.Repeat("é", 40), strings.Repeat("é", 30)},
		{"blank message keeps placeholder", "   ", DefaultTitle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conv := NewConversation()
			conv.Append(RoleUser, tc.content)
			if conv.Title != tc.want {
				t.Errorf("Title = %q, want %q", conv.Title, tc.want)
			}
		})
	}
}

func TestConversation_BlankFirstMessageLeavesTitleOpen(t *testing.T) {
	conv := NewConversation()
	conv.Append(RoleUser, "   ")
	conv.Append(RoleUser, "What is recursion?")
	if conv.Title != "What is recursion?" {
		t.Errorf("Title = %q, want %q", conv.Title, "What is recursion?")
	}
}

func TestConversation_SecondUserMessageKeepsTitle(t *testing.T) {
	conv := NewConversation()
	conv.Append(RoleUser, "first question")
	conv.Append(RoleAssistant, "answer")
	conv.Append(RoleUser, "second question")

	if conv.Title != "first question" {
		t.Errorf("Title = %q, want %q", conv.Title, "first question")
	}
}

func TestConversation_AssistantFirstDoesNotTitle(t *testing.T) {
	conv := NewConversation()
	conv.Append(RoleAssistant, "hello from the assistant")
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want placeholder", conv.Title)
	}
	conv.Append(RoleUser, "now the user")
	if conv.Title != "now the user" {
		t.Errorf("Title = %q, want %q", conv.Title, "now the user")
	}
}

func TestConversation_RenamedTitleNotOverwritten(t *testing.T) {
	conv := NewConversation()
	conv.Rename("Algebra homework")
	conv.Append(RoleUser, "solve x+1=2")
	if conv.Title != "Algebra homework" {
		t.Errorf("Title = %q, want %q", conv.Title, "Algebra homework")
	}
}

func TestConversation_UpdateLast(t *testing.T) {
	conv := NewConversation()
	if conv.UpdateLast("nothing") {
		t.Error("UpdateLast on empty log should report false")
	}
	if !conv.IsEmpty() {
		t.Error("UpdateLast on empty log must not add a message")
	}

	conv.Append(RoleUser, "q")
	conv.Append(RoleAssistant, "")
	if !conv.UpdateLast("partial") {
		t.Fatal("UpdateLast should succeed")
	}
	last, ok := conv.Last()
	if !ok || last.Content != "partial" || last.Role != RoleAssistant {
		t.Errorf("Last = %+v, want assistant 'partial'", last)
	}
	if conv.Messages[0].Content != "q" {
		t.Errorf("earlier message modified: %q", conv.Messages[0].Content)
	}
}

func TestConversation_Rename(t *testing.T) {
	conv := NewConversation()

	if conv.Rename("   ") {
		t.Error("whitespace rename should be rejected")
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q after blank rename", conv.Title)
	}

	if !conv.Rename("  Physics  ") {
		t.Fatal("rename should succeed")
	}
	if conv.Title != "Physics" {
		t.Errorf("Title = %q, want %q", conv.Title, "Physics")
	}

	conv.Rename(strings.Repeat("a", 80))
	if got := len([]rune(conv.Title)); got != MaxTitleRunes {
		t.Errorf("title length = %d, want %d", got, MaxTitleRunes)
	}
}

func TestConversation_CloneIsDeep(t *testing.T) {
	conv := NewConversation()
	conv.Append(RoleUser, "original")

	clone := conv.Clone()
	clone.Messages[0].Content = "changed"
	clone.Append(RoleAssistant, "extra")

	if conv.Messages[0].Content != "original" {
		t.Error("clone shares message storage with original")
	}
	if conv.MessageCount() != 1 {
		t.Errorf("original MessageCount = %d, want 1", conv.MessageCount())
	}
}

func TestConversation_Preview(t *testing.T) {
	conv := NewConversation()
	if conv.Preview(20) != "" {
		t.Error("empty conversation should have empty preview")
	}
	conv.Append(RoleUser, "line one\nline two")
	if got := conv.Preview(40); got != "line one line two" {
		t.Errorf("Preview = %q", got)
	}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

func TestConversation_DecodesWebClientShape(t *testing.T) {
	raw := `{"id":"abc","title":"New Chat","messages":[{"role":"user","content":"hi"}]}`

	var conv Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	conv.Normalize()
	if conv.ID != "abc" || conv.MessageCount() != 1 || conv.Messages[0].Role != RoleUser {
		t.Errorf("decoded = %+v", conv)
	}
}

func TestConversation_NormalizeFillsGaps(t *testing.T) {
	var conv Conversation
	if err := json.Unmarshal([]byte(`{"id":"x","messages":null}`), &conv); err != nil {
		t.Fatal(err)
	}
	conv.Normalize()
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want placeholder", conv.Title)
	}
	if conv.Messages == nil {
		t.Error("Messages should be non-nil after Normalize")
	}
}

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("user display = %q", RoleUser.DisplayName())
	}
	if RoleAssistant.DisplayName() != "Nexus AI" {
		t.Errorf("assistant display = %q", RoleAssistant.DisplayName())
	}
	if got := Role("teacher").DisplayName(); got != "Teacher" {
		t.Errorf("unknown role display = %q, want %q", got, "Teacher")
	}
	if Role("system").Valid() {
		t.Error("system should not be a valid chat role")
	}
}
