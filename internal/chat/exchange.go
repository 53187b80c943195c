// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the assistant exchange and progressive reveal.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/model"
)

const (
	// NoResponseText is shown when the server answered without any text.
	NoResponseText = "No response from AI."

	// ErrorText is shown when the request failed for any reason.
	ErrorText = "Error getting response"
)

// ErrBlankMessage is returned by Converse for text with nothing to send.
var ErrBlankMessage = errors.New("chat: message is blank")

// Sender posts one chat message. *api.Client implements it.
type Sender interface {
	SendChatMessage(ctx context.Context, message string) (*api.ChatResponse, error)
}

// Exchange sends user messages to the assistant.
type Exchange struct {
	sender Sender
	logger *log.Logger
}

// NewExchange creates an exchange over sender.
func NewExchange(sender Sender) *Exchange {
	return &Exchange{sender: sender, logger: log.Default()}
}

// WithLogger sets the logger for request failures.
func (e *Exchange) WithLogger(l *log.Logger) *Exchange {
	if l != nil {
		e.logger = l
	}
	return e
}

// Send returns exactly one reply for text.
func (e *Exchange) Send(ctx context.Context, text string) string {
	resp, err := e.sender.SendChatMessage(ctx, text)
	if err != nil {
		e.logger.Printf("chat: request failed: %v", err)
		return ErrorText
	}
	if reply := resp.Text(); reply != "" {
		return reply
	}
	return NoResponseText
}

// =============================================================================
// CONVERSATION HELPERS
// =============================================================================

// Store is the part of the chat store a conversation turn needs.
// *storage.ChatStore implements it.
type Store interface {
	ActiveID() string
	CreateConversation() *model.Conversation
	AppendMessage(role model.Role, content string) bool
}

// Acceptable reports whether text may be sent: blank input is ignored.
func Acceptable(text string) bool {
	return strings.TrimSpace(text) != ""
}

// Converse runs one complete turn against the active conversation,
// creating one if none is active. The user text is appended before the
// request and the reply after it. Returns the reply and the conversation id.
// Blank text returns ErrBlankMessage and leaves the store untouched.
func (e *Exchange) Converse(ctx context.Context, store Store, text string) (reply, convID string, err error) {
	if !Acceptable(text) {
		return "", "", ErrBlankMessage
	}
	if store.ActiveID() == "" {
		store.CreateConversation()
	}
	convID = store.ActiveID()

	store.AppendMessage(model.RoleUser, text)
	reply = e.Send(ctx, text)
	store.AppendMessage(model.RoleAssistant, reply)
	return reply, convID, nil
}
