// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexus-campus/nexus-tui/internal/util"
)

const (
	// DefaultTitle is the placeholder title of a conversation that has not
	// received a user message yet.
	DefaultTitle = "New Chat"

	// AutoTitleRunes is how much of the first user message becomes the title.
	AutoTitleRunes = 30

	// MaxTitleRunes caps user-supplied titles.
	MaxTitleRunes = 50
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds one chat thread.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`

	// UpdatedAt is unix milliseconds of the last mutation. Blobs written by
	// the web client do not carry it.
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// NewConversation creates an empty conversation with a fresh UUID and the
// placeholder title.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  make([]Message, 0),
		UpdatedAt: time.Now().UnixMilli(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the log. The first non-blank user message sets
// the title while it is still the placeholder.
func (c *Conversation) Append(role Role, content string) {
	if role == RoleUser && c.Title == DefaultTitle && !c.hasUserMessage() {
		if title := util.FirstRunes(content, AutoTitleRunes); strings.TrimSpace(title) != "" {
			c.Title = title
		}
	}
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
	c.touch()
}

// UpdateLast replaces the content of the last message in place.
// Returns false if the log is empty.
func (c *Conversation) UpdateLast(content string) bool {
	if len(c.Messages) == 0 {
		return false
	}
	c.Messages[len(c.Messages)-1].Content = content
	c.touch()
	return true
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages in the conversation.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

func (c *Conversation) hasUserMessage() bool {
	for _, m := range c.Messages {
		if m.Role == RoleUser && strings.TrimSpace(m.Content) != "" {
			return true
		}
	}
	return false
}

// =============================================================================
// TITLE
// =============================================================================

// Rename sets the title to title trimmed and capped at MaxTitleRunes.
// A title that is blank after trimming is rejected and false returned.
func (c *Conversation) Rename(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	c.Title = util.FirstRunes(title, MaxTitleRunes)
	c.touch()
	return true
}

// HasDefaultTitle reports whether the title is still the placeholder.
func (c *Conversation) HasDefaultTitle() bool {
	return c.Title == DefaultTitle
}

// Preview returns the first user message on one line, for listings.
func (c *Conversation) Preview(maxRunes int) string {
	for _, m := range c.Messages {
		if m.Role == RoleUser && m.Content != "" {
			return util.TruncateRunes(util.SingleLine(m.Content), maxRunes)
		}
	}
	return ""
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a deep copy; the message slice is not shared.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}

// Normalize repairs a conversation decoded from storage: a missing title
// becomes the placeholder and a null message list becomes empty.
func (c *Conversation) Normalize() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Messages == nil {
		c.Messages = make([]Message, 0)
	}
}

func (c *Conversation) touch() {
	c.UpdatedAt = time.Now().UnixMilli()
}
