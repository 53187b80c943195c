// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local chat session store for the nexus client.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/nexus-campus/nexus-tui/internal/model"
)

// ChatsKey is the blob key holding the serialized conversation collection.
const ChatsKey = "nexus_chats"

// backupKey receives an unreadable collection before the store starts empty.
const backupKey = ChatsKey + ".corrupt"

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

// ChangeKind identifies which mutation produced a Change.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeSelected
	ChangeAppended
	ChangeUpdated
	ChangeRenamed
	ChangeDeleted
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeSelected:
		return "selected"
	case ChangeAppended:
		return "appended"
	case ChangeUpdated:
		return "updated"
	case ChangeRenamed:
		return "renamed"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change describes one applied mutation.
type Change struct {
	Kind ChangeKind
	// ID is the conversation the mutation touched.
	ID string
	// ActiveID is the active conversation after the mutation ("" for none).
	ActiveID string
}

// =============================================================================
// CHAT STORE
// =============================================================================

// ChatStore holds the ordered conversation collection (newest first) and
// the active selection. Mutations that target something that does not
// exist are silent no-ops. After each applied collection mutation the
// whole collection is written to the blob; a failed write is logged and
// kept in LastError, the in-memory state is never rolled back.
type ChatStore struct {
	mu       sync.Mutex
	blob     Blob
	logger   *log.Logger
	convs    []*model.Conversation
	activeID string
	lastErr  error

	observers []func(Change)
}

// OpenChatStore loads the collection from blob. The first conversation
// becomes active. An unreadable collection is copied to a backup key and
// the store starts empty.
func OpenChatStore(blob Blob) (*ChatStore, error) {
	s := &ChatStore{
		blob:   blob,
		logger: log.Default(),
		convs:  make([]*model.Conversation, 0),
	}

	data, err := blob.Get(ChatsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ChatsKey, err)
	}

	var loaded []*model.Conversation
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Printf("storage: %s is unreadable (%v), backing up and starting empty", ChatsKey, err)
		if berr := blob.Set(backupKey, data); berr != nil {
			return nil, fmt.Errorf("back up unreadable %s: %w", ChatsKey, berr)
		}
		return s, nil
	}

	seen := make(map[string]bool, len(loaded))
	for _, c := range loaded {
		if c == nil || c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		c.Normalize()
		s.convs = append(s.convs, c)
	}
	if len(s.convs) > 0 {
		s.activeID = s.convs[0].ID
	}
	return s, nil
}

// WithLogger sets the logger used for persistence failures.
func (s *ChatStore) WithLogger(l *log.Logger) *ChatStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l != nil {
		s.logger = l
	}
	return s
}

// OnChange registers fn to run after every applied mutation. Observers run
// outside the store lock and may call back into the store.
func (s *ChatStore) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateConversation inserts a new empty conversation at the front and
// makes it active. It always succeeds locally.
func (s *ChatStore) CreateConversation() *model.Conversation {
	s.mu.Lock()
	conv := model.NewConversation()
	s.convs = append([]*model.Conversation{conv}, s.convs...)
	s.activeID = conv.ID
	s.persistLocked()
	out := conv.Clone()
	change := s.changeLocked(ChangeCreated, conv.ID)
	s.mu.Unlock()

	s.notify(change)
	return out
}

// SelectConversation makes id active. Unknown ids are ignored.
// Selection is not persisted; it is not part of the stored collection.
func (s *ChatStore) SelectConversation(id string) bool {
	s.mu.Lock()
	if s.findLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	s.activeID = id
	change := s.changeLocked(ChangeSelected, id)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// AppendMessage appends a message to the active conversation. The first
// user message of a conversation still titled "New Chat" sets the title.
// Without an active conversation nothing happens.
func (s *ChatStore) AppendMessage(role model.Role, content string) bool {
	s.mu.Lock()
	conv := s.activeLocked()
	if conv == nil {
		s.mu.Unlock()
		return false
	}
	conv.Append(role, content)
	s.persistLocked()
	change := s.changeLocked(ChangeAppended, conv.ID)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// AppendMessageTo appends to conversation id whether or not it is active.
// A reply that arrives after the user switched conversations lands in the
// conversation it was asked in.
func (s *ChatStore) AppendMessageTo(id string, role model.Role, content string) bool {
	s.mu.Lock()
	idx := s.findLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.convs[idx].Append(role, content)
	s.persistLocked()
	change := s.changeLocked(ChangeAppended, id)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// UpdateLastMessage replaces the content of the active conversation's last
// message. No-op if there is no active conversation or its log is empty.
func (s *ChatStore) UpdateLastMessage(content string) bool {
	s.mu.Lock()
	id := s.activeID
	s.mu.Unlock()
	return s.UpdateLastMessageIn(id, content)
}

// UpdateLastMessageIn is UpdateLastMessage guarded by the conversation id:
// it does nothing unless id is still the active conversation.
func (s *ChatStore) UpdateLastMessageIn(id, content string) bool {
	s.mu.Lock()
	conv := s.activeLocked()
	if conv == nil || conv.ID != id || !conv.UpdateLast(content) {
		s.mu.Unlock()
		return false
	}
	s.persistLocked()
	change := s.changeLocked(ChangeUpdated, conv.ID)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// CompleteLastMessage replaces the last message of conversation id whether
// or not it is active. Used to finish a progressive reveal that was cut
// short by switching conversations.
func (s *ChatStore) CompleteLastMessage(id, content string) bool {
	s.mu.Lock()
	idx := s.findLocked(id)
	if idx < 0 || !s.convs[idx].UpdateLast(content) {
		s.mu.Unlock()
		return false
	}
	s.persistLocked()
	change := s.changeLocked(ChangeUpdated, id)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// RenameConversation sets the title of id, trimmed and capped at 50 runes.
// Blank titles and unknown ids are ignored.
func (s *ChatStore) RenameConversation(id, title string) bool {
	s.mu.Lock()
	idx := s.findLocked(id)
	if idx < 0 || !s.convs[idx].Rename(title) {
		s.mu.Unlock()
		return false
	}
	s.persistLocked()
	change := s.changeLocked(ChangeRenamed, id)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// DeleteConversation removes id. When it was active, the first remaining
// conversation becomes active, or none if the collection is now empty.
func (s *ChatStore) DeleteConversation(id string) bool {
	s.mu.Lock()
	idx := s.findLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.convs = append(s.convs[:idx], s.convs[idx+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.convs) > 0 {
			s.activeID = s.convs[0].ID
		}
	}
	s.persistLocked()
	change := s.changeLocked(ChangeDeleted, id)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversations returns deep copies of all conversations, newest first.
func (s *ChatStore) Conversations() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Conversation, len(s.convs))
	for i, c := range s.convs {
		out[i] = c.Clone()
	}
	return out
}

// Len returns the number of conversations.
func (s *ChatStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// Active returns a copy of the active conversation, or nil.
func (s *ChatStore) Active() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.activeLocked(); c != nil {
		return c.Clone()
	}
	return nil
}

// ActiveID returns the active conversation id, or "" when none.
func (s *ChatStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Get returns a copy of conversation id.
func (s *ChatStore) Get(id string) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.findLocked(id)
	if idx < 0 {
		return nil, ErrConversationNotFound
	}
	return s.convs[idx].Clone(), nil
}

// Resolve finds a conversation by exact id or unique id prefix, the way
// CLI users type ids.
func (s *ChatStore) Resolve(ref string) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == "" {
		return nil, ErrConversationNotFound
	}
	if idx := s.findLocked(ref); idx >= 0 {
		return s.convs[idx].Clone(), nil
	}
	var match *model.Conversation
	for _, c := range s.convs {
		if len(c.ID) >= len(ref) && c.ID[:len(ref)] == ref {
			if match != nil {
				return nil, fmt.Errorf("ambiguous conversation id %q", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, ErrConversationNotFound
	}
	return match.Clone(), nil
}

// LastError returns the most recent persistence error, or nil after a
// successful write.
func (s *ChatStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close releases the underlying blob.
func (s *ChatStore) Close() error {
	return s.blob.Close()
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *ChatStore) findLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *ChatStore) activeLocked() *model.Conversation {
	if idx := s.findLocked(s.activeID); idx >= 0 {
		return s.convs[idx]
	}
	return nil
}

func (s *ChatStore) changeLocked(kind ChangeKind, id string) Change {
	return Change{Kind: kind, ID: id, ActiveID: s.activeID}
}

func (s *ChatStore) persistLocked() {
	data, err := json.Marshal(s.convs)
	if err == nil {
		err = s.blob.Set(ChatsKey, data)
	}
	if err != nil {
		s.logger.Printf("storage: failed to persist %s: %v", ChatsKey, err)
	}
	s.lastErr = err
}

func (s *ChatStore) notify(change Change) {
	s.mu.Lock()
	observers := make([]func(Change), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(change)
	}
}
