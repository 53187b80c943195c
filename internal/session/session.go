// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user's session for nexus.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nexus-campus/nexus-tui/internal/util"
)

// FileName is the session file inside the nexus config directory.
const FileName = "session.json"

// undefinedToken is what the web client stored when a login response had
// no token; it must never be sent as a credential.
const undefinedToken = "undefined"

// ErrNotLoggedIn is returned by operations that need a token.
var ErrNotLoggedIn = errors.New("not logged in")

// =============================================================================
// ROLE
// =============================================================================

// Role is the authenticated user's role as returned by the login endpoint.
type Role string

const (
	RoleNone    Role = ""
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole normalizes a role string. Unknown roles map to RoleNone.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent
	case RoleTeacher:
		return RoleTeacher
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleNone
	}
}

// String returns the role name.
func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// =============================================================================
// STATE
// =============================================================================

// State is the persisted session content.
type State struct {
	Token      string    `json:"token"`
	Role       Role      `json:"role"`
	Mobile     string    `json:"mobile,omitempty"`
	LoggedInAt time.Time `json:"logged_in_at,omitempty"`
}

// Authenticated reports whether the state carries a usable token.
func (s State) Authenticated() bool {
	return usableToken(s.Token)
}

func sameState(a, b State) bool {
	return a.Token == b.Token && a.Role == b.Role && a.Mobile == b.Mobile
}

func usableToken(tok string) bool {
	return tok != "" && tok != undefinedToken
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the mutex-guarded auth state shared by the API client and UI.
type Session struct {
	mu    sync.Mutex
	path  string
	state State

	onChange []func(State)
}

// New returns an in-memory session that is never persisted.
func New() *Session {
	return &Session{}
}

// Open loads the session stored at path. A missing file yields a logged-out
// session; a corrupt one is treated the same and overwritten on next Login.
func Open(path string) (*Session, error) {
	s := &Session{path: path}
	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return s, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// Path returns the session file, or "" for in-memory sessions.
func (s *Session) Path() string {
	return s.path
}

// Login records a successful authentication and persists it.
func (s *Session) Login(token string, role Role, mobile string) error {
	if !usableToken(token) {
		return errors.New("login response did not include an access token")
	}

	st := State{
		Token:      token,
		Role:       role,
		Mobile:     mobile,
		LoggedInAt: time.Now(),
	}
	if st.Role == RoleNone {
		if claims, err := ParseClaims(token); err == nil {
			st.Role = ParseRole(claims.Role)
		}
	}

	s.mu.Lock()
	s.state = st
	err := s.saveLocked()
	s.mu.Unlock()

	s.notify(st)
	return err
}

// Logout clears the session and removes the file.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.state = State{}
	var err error
	if s.path != "" {
		if rerr := os.Remove(s.path); rerr != nil && !os.IsNotExist(rerr) {
			err = rerr
		}
	}
	s.mu.Unlock()

	s.notify(State{})
	return err
}

// Reload re-reads the session file and notifies observers if it changed.
func (s *Session) Reload() error {
	s.mu.Lock()
	before := s.state
	err := s.load()
	if errors.Is(err, os.ErrNotExist) {
		s.state = State{}
		err = nil
	}
	after := s.state
	s.mu.Unlock()

	if !sameState(after, before) {
		s.notify(after)
	}
	return err
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Role returns the authenticated role, or RoleNone.
func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Authenticated() {
		return RoleNone
	}
	return s.state.Role
}

// Authenticated reports whether a usable token is held.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated()
}

// BearerToken returns the token to send, and false when there is none
// (empty or the literal "undefined").
func (s *Session) BearerToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !usableToken(s.state.Token) {
		return "", false
	}
	return s.state.Token, true
}

// Claims decodes the token's claims.
func (s *Session) Claims() (*Claims, error) {
	tok, ok := s.BearerToken()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return ParseClaims(tok)
}

// OnChange registers fn to run after Login, Logout, or a Reload that
// changed the state. Callbacks run outside the lock.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (s *Session) load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.state = State{}
		return fmt.Errorf("corrupt session file: %w", err)
	}
	st.Role = ParseRole(string(st.Role))
	s.state = st
	return nil
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}

func (s *Session) notify(st State) {
	s.mu.Lock()
	fns := make([]func(State), len(s.onChange))
	copy(fns, s.onChange)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
