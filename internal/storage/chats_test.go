// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/nexus-campus/nexus-tui/internal/model"
)

func newTestStore(t *testing.T) (*ChatStore, *MemoryBlob) {
	t.Helper()
	blob := NewMemoryBlob()
	store, err := OpenChatStore(blob)
	if err != nil {
		t.Fatalf("OpenChatStore failed: %v", err)
	}
	store.WithLogger(log.New(io.Discard, "", 0))
	return store, blob
}

func storedCollection(t *testing.T, blob Blob) []*model.Conversation {
	t.Helper()
	data, err := blob.Get(ChatsKey)
	if err != nil {
		t.Fatalf("blob.Get failed: %v", err)
	}
	var convs []*model.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		t.Fatalf("stored collection is not valid JSON: %v", err)
	}
	return convs
}

func TestCreateConversationNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)

	a := store.CreateConversation()
	b := store.CreateConversation()

	if a.ID == b.ID {
		t.Fatal("expected unique ids")
	}
	convs := store.Conversations()
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != b.ID || convs[1].ID != a.ID {
		t.Error("expected newest conversation first")
	}
	if store.ActiveID() != b.ID {
		t.Errorf("ActiveID() = %q, want %q", store.ActiveID(), b.ID)
	}
	if b.Title != model.DefaultTitle || len(b.Messages) != 0 {
		t.Errorf("new conversation = %+v, want empty with default title", b)
	}
}

func TestAppendMessageSetsTitle(t *testing.T) {
	store, blob := newTestStore(t)
	store.CreateConversation()

	store.AppendMessage(model.RoleUser, "What is recursion?")

	active := store.Active()
	if active.Title != "What is recursion?" {
		t.Errorf("Title = %q, want %q", active.Title, "What is recursion?")
	}
	if len(active.Messages) != 1 || active.Messages[0].Role != model.RoleUser {
		t.Errorf("Messages = %+v", active.Messages)
	}

	stored := storedCollection(t, blob)
	if len(stored) != 1 || stored[0].Title != "What is recursion?" {
		t.Errorf("persisted collection = %+v", stored)
	}
}

func TestAppendMessageLongTitleTruncated(t *testing.T) {
	store, _ := newTestStore(t)
	store.CreateConversation()

	store.AppendMessage(model.RoleUser, strings.Repeat("x", 100))
	store.AppendMessage(model.RoleUser, "second question")

	if got := store.Active().Title; got != strings.Repeat("x", 30) {
		t.Errorf("Title = %q, want 30 x's", got)
	}
}

func TestAppendMessageWithoutActive(t *testing.T) {
	store, blob := newTestStore(t)

	if store.AppendMessage(model.RoleUser, "hello") {
		t.Error("expected append without active conversation to be a no-op")
	}
	if store.UpdateLastMessage("x") {
		t.Error("expected update without active conversation to be a no-op")
	}
	if blob.Writes() != 0 {
		t.Errorf("expected no writes, got %d", blob.Writes())
	}
}

func TestUpdateLastMessage(t *testing.T) {
	store, _ := newTestStore(t)
	store.CreateConversation()

	if store.UpdateLastMessage("nothing to update") {
		t.Error("expected update on empty log to be a no-op")
	}
	if n := len(store.Active().Messages); n != 0 {
		t.Errorf("expected empty log, got %d messages", n)
	}

	store.AppendMessage(model.RoleUser, "hi")
	store.AppendMessage(model.RoleAssistant, "")
	store.UpdateLastMessage("Hello")
	store.UpdateLastMessage("Hello there")

	msgs := store.Active().Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "Hello there" {
		t.Errorf("last content = %q, want %q", msgs[1].Content, "Hello there")
	}
	if msgs[0].Content != "hi" {
		t.Errorf("first message changed: %q", msgs[0].Content)
	}
}

func TestUpdateLastMessageInRequiresActive(t *testing.T) {
	store, _ := newTestStore(t)
	a := store.CreateConversation()
	store.AppendMessage(model.RoleAssistant, "")
	store.CreateConversation()
	store.AppendMessage(model.RoleAssistant, "")

	if store.UpdateLastMessageIn(a.ID, "late chunk") {
		t.Error("expected update for non-active conversation to be a no-op")
	}
	got, _ := store.Get(a.ID)
	if got.Messages[0].Content != "" {
		t.Errorf("non-active conversation modified: %q", got.Messages[0].Content)
	}

	store.SelectConversation(a.ID)
	if !store.UpdateLastMessageIn(a.ID, "chunk") {
		t.Error("expected update for active conversation to apply")
	}
}

func TestSelectConversationUnknown(t *testing.T) {
	store, _ := newTestStore(t)
	c := store.CreateConversation()

	if store.SelectConversation("does-not-exist") {
		t.Error("expected select of unknown id to be a no-op")
	}
	if store.ActiveID() != c.ID {
		t.Errorf("ActiveID() = %q, want %q", store.ActiveID(), c.ID)
	}
}

func TestRenameConversation(t *testing.T) {
	store, _ := newTestStore(t)
	c := store.CreateConversation()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trimmed", "  Physics  ", "Physics"},
		{"whitespace ignored", "   ", "Physics"},
		{"capped", strings.Repeat("y", 80), strings.Repeat("y", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.RenameConversation(c.ID, tt.input)
			got, err := store.Get(c.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Title != tt.want {
				t.Errorf("Title = %q, want %q", got.Title, tt.want)
			}
		})
	}

	if store.RenameConversation("missing", "x") {
		t.Error("expected rename of unknown id to be a no-op")
	}
}

func TestDeleteOnlyActive(t *testing.T) {
	store, blob := newTestStore(t)
	c := store.CreateConversation()

	store.DeleteConversation(c.ID)

	if store.Len() != 0 {
		t.Errorf("expected empty collection, got %d", store.Len())
	}
	if store.ActiveID() != "" || store.Active() != nil {
		t.Error("expected no active conversation")
	}
	if stored := storedCollection(t, blob); len(stored) != 0 {
		t.Errorf("persisted collection = %+v, want empty", stored)
	}
}

func TestDeleteActiveSelectsFirstRemaining(t *testing.T) {
	store, _ := newTestStore(t)
	a := store.CreateConversation()
	b := store.CreateConversation()
	c := store.CreateConversation()

	store.DeleteConversation(c.ID)
	if store.ActiveID() != b.ID {
		t.Errorf("ActiveID() = %q, want %q", store.ActiveID(), b.ID)
	}

	store.SelectConversation(a.ID)
	store.DeleteConversation(b.ID)
	if store.ActiveID() != a.ID {
		t.Errorf("deleting non-active changed ActiveID to %q", store.ActiveID())
	}
}

func TestReopenRestoresCollection(t *testing.T) {
	dir := t.TempDir()
	blob, err := NewFileBlob(dir)
	if err != nil {
		t.Fatalf("NewFileBlob failed: %v", err)
	}
	store, err := OpenChatStore(blob)
	if err != nil {
		t.Fatalf("OpenChatStore failed: %v", err)
	}
	older := store.CreateConversation()
	store.AppendMessage(model.RoleUser, "first")
	newer := store.CreateConversation()
	store.AppendMessage(model.RoleUser, "second")
	store.AppendMessage(model.RoleAssistant, "answer")

	reopened, err := OpenChatStore(blob)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	convs := reopened.Conversations()
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != newer.ID || convs[1].ID != older.ID {
		t.Error("order not preserved across reopen")
	}
	if reopened.ActiveID() != newer.ID {
		t.Errorf("ActiveID() = %q, want first conversation", reopened.ActiveID())
	}
	if len(convs[0].Messages) != 2 || convs[0].Messages[1].Content != "answer" {
		t.Errorf("messages not restored: %+v", convs[0].Messages)
	}
}

func TestOpenWebClientShape(t *testing.T) {
	blob := NewMemoryBlob()
	raw := `[{"id":"a1","title":"Algebra","messages":[{"role":"user","content":"x?"}]},
	         {"id":"a1","title":"dup","messages":[]},
	         {"id":"b2","messages":null}]`
	if err := blob.Set(ChatsKey, []byte(raw)); err != nil {
		t.Fatal(err)
	}

	store, err := OpenChatStore(blob)
	if err != nil {
		t.Fatalf("OpenChatStore failed: %v", err)
	}
	convs := store.Conversations()
	if len(convs) != 2 {
		t.Fatalf("expected duplicates dropped, got %d conversations", len(convs))
	}
	if convs[0].Title != "Algebra" {
		t.Errorf("first title = %q", convs[0].Title)
	}
	if convs[1].Title != model.DefaultTitle || convs[1].Messages == nil {
		t.Errorf("second conversation not normalized: %+v", convs[1])
	}
}

func TestOpenCorruptBlob(t *testing.T) {
	blob := NewMemoryBlob()
	blob.Set(ChatsKey, []byte("{not json"))

	store, err := OpenChatStore(blob)
	if err != nil {
		t.Fatalf("OpenChatStore failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
	backup, err := blob.Get(backupKey)
	if err != nil || string(backup) != "{not json" {
		t.Errorf("backup = %q, %v", backup, err)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	store, blob := newTestStore(t)
	blob.FailWrites = true

	store.CreateConversation()
	store.AppendMessage(model.RoleUser, "offline")

	if !errors.Is(store.LastError(), ErrWriteFailed) {
		t.Errorf("LastError() = %v, want ErrWriteFailed", store.LastError())
	}
	if got := store.Active(); got == nil || len(got.Messages) != 1 {
		t.Errorf("in-memory state lost: %+v", got)
	}

	blob.FailWrites = false
	store.AppendMessage(model.RoleAssistant, "back")
	if store.LastError() != nil {
		t.Errorf("LastError() = %v after successful write", store.LastError())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	store, _ := newTestStore(t)
	store.CreateConversation()
	store.AppendMessage(model.RoleUser, "original")

	copied := store.Active()
	copied.Messages[0].Content = "mutated"
	copied.Title = "mutated"

	if got := store.Active(); got.Messages[0].Content != "original" || got.Title != "original" {
		t.Errorf("store state changed through a copy: %+v", got)
	}
}

func TestOnChange(t *testing.T) {
	store, _ := newTestStore(t)

	var kinds []ChangeKind
	store.OnChange(func(c Change) {
		kinds = append(kinds, c.Kind)
		// Observers may read the store.
		_ = store.ActiveID()
	})

	c := store.CreateConversation()
	store.AppendMessage(model.RoleUser, "hi")
	store.SelectConversation(c.ID)
	store.SelectConversation("missing")
	store.DeleteConversation(c.ID)

	want := []ChangeKind{ChangeCreated, ChangeAppended, ChangeSelected, ChangeDeleted}
	if len(kinds) != len(want) {
		t.Fatalf("changes = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("change %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestResolvePrefix(t *testing.T) {
	store, _ := newTestStore(t)
	c := store.CreateConversation()

	got, err := store.Resolve(c.ID[:8])
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("Resolve() = %q, want %q", got.ID, c.ID)
	}
	if _, err := store.Resolve("zzzz"); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestCompleteLastMessageNonActive(t *testing.T) {
	store, _ := newTestStore(t)
	a := store.CreateConversation()
	store.AppendMessage(model.RoleAssistant, "partial")
	store.CreateConversation()

	if !store.CompleteLastMessage(a.ID, "partial and complete") {
		t.Fatal("expected CompleteLastMessage to apply")
	}
	got, _ := store.Get(a.ID)
	if got.Messages[0].Content != "partial and complete" {
		t.Errorf("content = %q", got.Messages[0].Content)
	}
	if store.CompleteLastMessage("missing", "x") {
		t.Error("expected no-op for unknown id")
	}
}

func TestAppendMessageToNonActive(t *testing.T) {
	store, _ := newTestStore(t)
	a := store.CreateConversation()
	store.AppendMessage(model.RoleUser, "What is recursion?")
	b := store.CreateConversation()

	if !store.AppendMessageTo(a.ID, model.RoleAssistant, "A function calling itself.") {
		t.Fatal("expected AppendMessageTo to apply")
	}
	if store.ActiveID() != b.ID {
		t.Errorf("ActiveID() = %q, want %q", store.ActiveID(), b.ID)
	}
	got, _ := store.Get(a.ID)
	if got.MessageCount() != 2 || got.Messages[1].Role != model.RoleAssistant {
		t.Errorf("messages = %+v", got.Messages)
	}
	if store.AppendMessageTo("missing", model.RoleUser, "x") {
		t.Error("expected no-op for unknown id")
	}
}
