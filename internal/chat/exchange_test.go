// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/model"
	"github.com/nexus-campus/nexus-tui/internal/storage"
)

var quiet = log.New(io.Discard, "", 0)

type fakeSender struct {
	resp *api.ChatResponse
	err  error
	got  []string
}

func (f *fakeSender) SendChatMessage(ctx context.Context, message string) (*api.ChatResponse, error) {
	f.got = append(f.got, message)
	return f.resp, f.err
}

func TestSendReplyFallbacks(t *testing.T) {
	tests := []struct {
		name string
		resp *api.ChatResponse
		err  error
		want string
	}{
		{"reply", &api.ChatResponse{Reply: "Hi"}, nil, "Hi"},
		{"answer", &api.ChatResponse{Answer: "A"}, nil, "A"},
		{"response", &api.ChatResponse{Response: "R"}, nil, "R"},
		{"empty body", &api.ChatResponse{}, nil, NoResponseText},
		{"server error", nil, &api.APIError{Status: 500}, ErrorText},
		{"transport", nil, api.ErrTransport, ErrorText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewExchange(&fakeSender{resp: tt.resp, err: tt.err}).WithLogger(quiet)
			if got := ex.Send(context.Background(), "q"); got != tt.want {
				t.Errorf("Send() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSendEmptyObjectOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL).WithLogger(quiet)
	if got := NewExchange(client).WithLogger(quiet).Send(context.Background(), "hello"); got != NoResponseText {
		t.Errorf("Send() = %q, want %q", got, NoResponseText)
	}
}

func TestConverseCreatesConversation(t *testing.T) {
	store, err := storage.OpenChatStore(storage.NewMemoryBlob())
	if err != nil {
		t.Fatal(err)
	}
	sender := &fakeSender{resp: &api.ChatResponse{Reply: "Recursion is..."}}

	reply, id, err := NewExchange(sender).WithLogger(quiet).Converse(context.Background(), store, "What is recursion?")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if reply != "Recursion is..." || id == "" {
		t.Fatalf("Converse() = %q, %q", reply, id)
	}
	conv := store.Active()
	if conv.ID != id || conv.Title != "What is recursion?" {
		t.Errorf("conversation = %+v", conv)
	}
	if len(conv.Messages) != 2 || conv.Messages[1].Role != model.RoleAssistant {
		t.Errorf("messages = %+v", conv.Messages)
	}
}

func TestConverseFailureStillAppendsOneReply(t *testing.T) {
	store, _ := storage.OpenChatStore(storage.NewMemoryBlob())
	store.CreateConversation()
	sender := &fakeSender{err: errors.New("boom")}

	NewExchange(sender).WithLogger(quiet).Converse(context.Background(), store, "hi")

	msgs := store.Active().Messages
	if len(msgs) != 2 || msgs[1].Content != ErrorText {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestConverseRejectsBlankText(t *testing.T) {
	store, _ := storage.OpenChatStore(storage.NewMemoryBlob())
	sender := &fakeSender{resp: &api.ChatResponse{Reply: "unused"}}
	ex := NewExchange(sender).WithLogger(quiet)

	if _, _, err := ex.Converse(context.Background(), store, "  \n"); !errors.Is(err, ErrBlankMessage) {
		t.Fatalf("Converse(blank) error = %v, want ErrBlankMessage", err)
	}
	if store.Len() != 0 {
		t.Errorf("blank text created %d conversations", store.Len())
	}
	if len(sender.got) != 0 {
		t.Errorf("blank text reached the server: %q", sender.got)
	}

	// A later real question still titles the conversation.
	if _, _, err := ex.Converse(context.Background(), store, "What is recursion?"); err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if got := store.Active().Title; got != "What is recursion?" {
		t.Errorf("Title = %q", got)
	}
}

func TestAcceptable(t *testing.T) {
	for _, s := range []string{"", "   ", "\n\t"} {
		if Acceptable(s) {
			t.Errorf("Acceptable(%q) = true", s)
		}
	}
	if !Acceptable(" x ") {
		t.Error("Acceptable(\" x \") = false")
	}
}
