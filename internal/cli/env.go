// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/config"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/storage"
)

var (
	// ErrNotLoggedIn is returned by commands that need a session.
	ErrNotLoggedIn = errors.New("not logged in (run: nexus login)")

	// ErrSessionExpired is returned after the server rejected the token.
	ErrSessionExpired = errors.New("session expired, please run: nexus login")
)

// Env is what a command runs against. main builds one from the user's
// files; tests build one over temp dirs and an httptest server.
type Env struct {
	Config  *config.Config
	Session *session.Session
	Client  *api.Client
	Logger  *log.Logger

	// ConfigFile is the --config path, "" for the default location.
	ConfigFile string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive allows prompts. Set when stdin is a terminal.
	Interactive bool

	// Password reads a password without echo. Nil uses the terminal.
	Password func(prompt string) (string, error)

	store *storage.ChatStore
	lines *bufio.Reader
}

// NewEnv loads config and session from the nexus home directory.
// A default config file that fails to parse is reported on stderr and
// defaults are used. A file named with --config must load.
func NewEnv(args Args) (*Env, error) {
	var cfg *config.Config
	var err error
	if args.ConfigFile != "" {
		if cfg, err = config.LoadFromPath(args.ConfigFile); err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, err
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(filepath.Join(dir, session.FileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	logger := log.New(io.Discard, "", 0)
	if args.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	env := newEnv(cfg, sess, logger)
	env.ConfigFile = args.ConfigFile
	return env, nil
}

func newEnv(cfg *config.Config, sess *session.Session, logger *log.Logger) *Env {
	client := api.NewClient(cfg.API.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithTokenSource(sess).
		WithLogger(logger)
	return &Env{
		Config:  cfg,
		Session: sess,
		Client:  client,
		Logger:  logger,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,

		Interactive: IsTTY(),
	}
}

// Store opens the chat store on first use.
func (e *Env) Store() (*storage.ChatStore, error) {
	if e.store != nil {
		return e.store, nil
	}
	path, err := e.Config.ChatStorePath()
	if err != nil {
		return nil, err
	}
	blob, err := storage.OpenBlob(e.Config.Chat.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("open chat storage: %w", err)
	}
	store, err := storage.OpenChatStore(blob)
	if err != nil {
		blob.Close()
		return nil, err
	}
	e.store = store.WithLogger(e.Logger)
	return e.store, nil
}

// Close releases the chat store if it was opened. Safe to call twice.
func (e *Env) Close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

// requireRole fails unless the session is signed in as one of roles.
func (e *Env) requireRole(roles ...session.Role) error {
	if !e.Session.Authenticated() {
		return ErrNotLoggedIn
	}
	role := e.Session.Role()
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return fmt.Errorf("this command is for %s accounts (signed in as %s)", joinRoles(roles), role)
}

func joinRoles(roles []session.Role) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += " or "
		}
		s += r.String()
	}
	return s
}

// sessionExpired turns a 401 into a logout and a readable error.
func (e *Env) sessionExpired(err error) error {
	if !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if lerr := e.Session.Logout(); lerr != nil {
		e.Logger.Printf("session: logout failed: %v", lerr)
	}
	return ErrSessionExpired
}

// =============================================================================
// PROMPTS
// =============================================================================

// readLine prompts on stderr and reads one line from stdin.
func (e *Env) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(e.Stderr, prompt)
	}
	if e.lines == nil {
		e.lines = bufio.NewReader(e.Stdin)
	}
	line, err := e.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads without echo from a terminal, or a plain line when
// stdin is piped.
func (e *Env) readPassword(prompt string) (string, error) {
	if e.Password != nil {
		return e.Password(prompt)
	}
	if f, ok := e.Stdin.(*os.File); ok && f == os.Stdin && IsTTY() {
		return ReadPassword(prompt)
	}
	return e.readLine(prompt)
}
