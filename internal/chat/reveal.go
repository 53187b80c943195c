// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the assistant exchange and progressive reveal.
package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexus-campus/nexus-tui/internal/storage"
)

const (
	// DefaultChunk is how many runes each reveal step adds.
	DefaultChunk = 8

	// DefaultInterval is the delay between reveal steps.
	DefaultInterval = 4 * time.Millisecond
)

// =============================================================================
// REVEAL
// =============================================================================

// Reveal splits a reply into growing prefixes of chunk runes.
type Reveal struct {
	ConvID string
	runes  []rune
	pos    int
	chunk  int
}

// NewReveal prepares text for revealing into conversation convID.
func NewReveal(convID, text string, chunk int) *Reveal {
	if chunk < 1 {
		chunk = DefaultChunk
	}
	return &Reveal{ConvID: convID, runes: []rune(text), chunk: chunk}
}

// Next advances by one chunk and returns the revealed prefix. done is true
// once the whole text has been returned.
func (r *Reveal) Next() (prefix string, done bool) {
	r.pos += r.chunk
	if r.pos >= len(r.runes) {
		r.pos = len(r.runes)
	}
	return string(r.runes[:r.pos]), r.pos >= len(r.runes)
}

// Full returns the complete text.
func (r *Reveal) Full() string {
	return string(r.runes)
}

// =============================================================================
// REVEALER
// =============================================================================

// Target receives reveal output. *storage.ChatStore implements it.
type Target interface {
	UpdateLastMessageIn(id, content string) bool
	CompleteLastMessage(id, content string) bool
}

// Revealer runs at most one reveal at a time. Each Begin bumps the
// generation; steps carrying an older generation are dropped.
type Revealer struct {
	target   Target
	chunk    int
	interval time.Duration

	mu  sync.Mutex
	cur *Reveal
	gen uint64
}

// NewRevealer creates a revealer writing into target.
func NewRevealer(target Target, chunk int, interval time.Duration) *Revealer {
	if chunk < 1 {
		chunk = DefaultChunk
	}
	if interval < 0 {
		interval = DefaultInterval
	}
	return &Revealer{target: target, chunk: chunk, interval: interval}
}

// Interval returns the delay between steps.
func (rv *Revealer) Interval() time.Duration {
	return rv.interval
}

// Begin starts revealing text into convID's last message, finishing any
// reveal already running. Returns the new generation.
func (rv *Revealer) Begin(convID, text string) uint64 {
	rv.mu.Lock()
	prev := rv.cur
	rv.gen++
	gen := rv.gen
	rv.cur = NewReveal(convID, text, rv.chunk)
	rv.mu.Unlock()

	if prev != nil {
		rv.target.CompleteLastMessage(prev.ConvID, prev.Full())
	}
	return gen
}

// Step applies the next chunk of generation gen. It returns true while more
// steps remain. Stale generations and reveals whose conversation is no
// longer active end without writing.
func (rv *Revealer) Step(gen uint64) bool {
	rv.mu.Lock()
	if rv.cur == nil || gen != rv.gen {
		rv.mu.Unlock()
		return false
	}
	r := rv.cur
	prefix, done := r.Next()
	if done {
		rv.cur = nil
	}
	rv.mu.Unlock()

	if !rv.target.UpdateLastMessageIn(r.ConvID, prefix) {
		// Conversation switched away or deleted between steps.
		rv.finish(gen, r)
		return false
	}
	return !done
}

// Cancel ends the running reveal, writing the remaining text at once.
func (rv *Revealer) Cancel() {
	rv.mu.Lock()
	r := rv.cur
	rv.cur = nil
	rv.gen++
	rv.mu.Unlock()

	if r != nil {
		rv.target.CompleteLastMessage(r.ConvID, r.Full())
	}
}

// Active returns the conversation being revealed into, if any.
func (rv *Revealer) Active() (convID string, gen uint64, ok bool) {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	if rv.cur == nil {
		return "", rv.gen, false
	}
	return rv.cur.ConvID, rv.gen, true
}

// HandleChange cancels the reveal when its conversation stops being active.
// Register it with ChatStore.OnChange.
func (rv *Revealer) HandleChange(c storage.Change) {
	rv.mu.Lock()
	r := rv.cur
	rv.mu.Unlock()

	if r != nil && c.ActiveID != r.ConvID {
		rv.Cancel()
	}
}

func (rv *Revealer) finish(gen uint64, r *Reveal) {
	rv.mu.Lock()
	if rv.gen == gen {
		rv.cur = nil
	}
	rv.mu.Unlock()
	rv.target.CompleteLastMessage(r.ConvID, r.Full())
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// RevealTickMsg asks the UI to apply the next step of a reveal.
type RevealTickMsg struct {
	ConvID string
	Gen    uint64
}

// TickCmd schedules one reveal step.
func TickCmd(interval time.Duration, convID string, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RevealTickMsg{ConvID: convID, Gen: gen}
	})
}
