// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"

	chatsvc "github.com/nexus-campus/nexus-tui/internal/chat"
	"github.com/nexus-campus/nexus-tui/internal/config"
	"github.com/nexus-campus/nexus-tui/internal/model"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/storage"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
	"github.com/nexus-campus/nexus-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history kept in the nexus home.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(configDir, "chat_history")}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. Non-empty lines go into
// history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession is one REPL run over the local chat store.
type ChatSession struct {
	env      *Env
	store    *storage.ChatStore
	exchange *chatsvc.Exchange
	markdown *components.Markdown
	width    int
	out      io.Writer

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newChatSession(env *Env) (*ChatSession, error) {
	if err := env.requireRole(session.RoleStudent); err != nil {
		return nil, err
	}
	store, err := env.Store()
	if err != nil {
		return nil, err
	}
	theme := styles.NewTheme(env.Config.UI.Theme)
	return &ChatSession{
		env:      env,
		store:    store,
		exchange: chatsvc.NewExchange(env.Client).WithLogger(env.Logger),
		markdown: components.NewMarkdown(theme.IsDark, env.Config.UI.Markdown && ColorsEnabled()),
		width:    GetTerminalWidth() - 2,
		out:      env.Stdout,
	}, nil
}

// ask runs one turn in the active conversation and prints the reply.
func (s *ChatSession) ask(text string) string {
	ctx, cancel := context.WithTimeout(context.Background(), s.env.Config.Timeout())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}()

	reply, _, err := s.exchange.Converse(ctx, s.store, text)
	if err != nil {
		return ""
	}
	fmt.Fprintln(s.out, s.markdown.Render(reply, s.width))
	return reply
}

// interrupt cancels the request in flight, if any. Reports whether there
// was one.
func (s *ChatSession) interrupt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// HandleChat runs `nexus chat` and its subcommands.
func HandleChat(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "repl":
		return runChatREPL(env, args)
	case "list", "ls":
		return chatList(env, args)
	case "new":
		return chatNew(env, args)
	case "show", "view":
		return chatShow(env, args)
	case "rename":
		return chatRename(env, args)
	case "delete", "rm":
		return chatDelete(env, args)
	default:
		return &UsageError{Reason: "unknown chat command: " + args.Subcommand, Usage: "nexus chat [list|new|show|rename|delete]"}
	}
}

func runChatREPL(env *Env, args Args) error {
	cs, err := newChatSession(env)
	if err != nil {
		return err
	}
	if ref := args.Parser.Flag("id"); ref != "" {
		conv, err := cs.store.Resolve(ref)
		if err != nil {
			return err
		}
		cs.store.SelectConversation(conv.ID)
	}

	input := NewChatCLI()
	defer input.Close()

	// First Ctrl+C cancels the request in flight.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if cs.interrupt() {
				fmt.Fprintln(env.Stderr, WarningStyle.Render("[Cancelled]"))
			}
		}
	}()

	if !args.Quiet {
		printChatWelcome(cs)
	}

	for {
		line, err := input.ReadInput("you> ")
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				return err
			}
			fmt.Fprintln(env.Stdout)
			return nil
		}
		keepGoing, err := cs.handleLine(line)
		if err != nil {
			fmt.Fprintf(env.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
		if !keepGoing {
			return nil
		}
	}
}

// handleLine processes one REPL line. It returns false to leave the REPL.
func (s *ChatSession) handleLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if !chatsvc.Acceptable(line) {
		return true, nil
	}
	if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
		return false, nil
	}
	if strings.HasPrefix(line, "/") {
		return s.handleSlashCommand(line)
	}
	s.ask(line)
	return true, nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (s *ChatSession) handleSlashCommand(line string) (bool, error) {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch command {
	case "/help", "/h", "/?", "/":
		s.printHelp()
	case "/new", "/n":
		conv := s.store.CreateConversation()
		fmt.Fprintln(s.out, DimStyle.Render("[New chat "+shortID(conv.ID)+"]"))
	case "/list", "/l":
		writeConversations(s.out, s.store)
	case "/switch", "/open":
		conv, err := s.store.Resolve(rest)
		if err != nil {
			return true, err
		}
		s.store.SelectConversation(conv.ID)
		fmt.Fprintln(s.out, DimStyle.Render("[Switched to "+conv.Title+"]"))
	case "/title", "/rename":
		id := s.store.ActiveID()
		if id == "" || !s.store.RenameConversation(id, rest) {
			return true, errors.New("nothing to rename (start a chat and give a non-empty title)")
		}
	case "/history":
		conv := s.store.Active()
		if conv == nil {
			fmt.Fprintln(s.out, DimStyle.Render(emptyChatText))
			break
		}
		writeConversation(s.out, conv, s.markdown, s.width)
	case "/quit", "/q", "/exit":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
	return true, nil
}

const emptyChatText = "Start a new chat to begin"

func printChatWelcome(s *ChatSession) {
	fmt.Fprintln(s.out, TitleStyle.Render("Nexus AI"))
	if conv := s.store.Active(); conv != nil {
		fmt.Fprintln(s.out, DimStyle.Render("Continuing: "+conv.Title))
	}
	fmt.Fprintln(s.out, DimStyle.Render("Ask anything educational... Commands: /help, /quit"))
	fmt.Fprintln(s.out)
}

func (s *ChatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/new", "Start a new chat"},
		{"/list", "List chats"},
		{"/switch <id>", "Continue another chat"},
		{"/title <text>", "Rename the current chat"},
		{"/history", "Show the current chat"},
		{"/quit", "Exit"},
	}
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %s  %s\n", PromptStyle.Render(util.PadWidth(c.cmd, 14)), DimStyle.Render(c.desc))
	}
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

type conversationSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Messages int    `json:"messages"`
	Active   bool   `json:"active"`
	Preview  string `json:"preview,omitempty"`
}

func summarize(store *storage.ChatStore) []conversationSummary {
	active := store.ActiveID()
	convs := store.Conversations()
	out := make([]conversationSummary, 0, len(convs))
	for _, c := range convs {
		out = append(out, conversationSummary{
			ID:       c.ID,
			Title:    c.Title,
			Messages: c.MessageCount(),
			Active:   c.ID == active,
			Preview:  c.Preview(60),
		})
	}
	return out
}

func writeConversations(w io.Writer, store *storage.ChatStore) {
	list := summarize(store)
	if len(list) == 0 {
		fmt.Fprintln(w, DimStyle.Render(emptyChatText))
		return
	}
	for _, c := range list {
		marker := " "
		if c.Active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", marker, shortID(c.ID), util.PadWidth(util.TruncateWidth(c.Title, 32), 32), DimStyle.Render(fmt.Sprintf("%d messages", c.Messages)))
	}
}

func writeConversation(w io.Writer, conv *model.Conversation, md *components.Markdown, width int) {
	fmt.Fprintln(w, TitleStyle.Render(conv.Title))
	for _, m := range conv.Messages {
		label := PromptStyle.Render(m.Role.DisplayName())
		fmt.Fprintln(w, label)
		if m.IsUser() {
			fmt.Fprintln(w, m.Content)
		} else {
			fmt.Fprintln(w, md.Render(m.Content, width))
		}
		fmt.Fprintln(w)
	}
}

func shortID(id string) string {
	return util.FirstRunes(id, 8)
}

func chatList(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "chat list", func() (interface{}, error) {
		store, err := env.Store()
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			writeConversations(env.Stdout, store)
		}
		return summarize(store), nil
	})
}

func chatNew(env *Env, args Args) error {
	store, err := env.Store()
	if err != nil {
		return err
	}
	conv := store.CreateConversation()
	if args.JSON {
		return NewJSONResponse("chat new", conversationSummary{ID: conv.ID, Title: conv.Title, Active: true}).Print(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, "Created "+conv.ID)
	if args.Parser.BoolFlag("no-repl") || !env.Interactive {
		return nil
	}
	return runChatREPL(env, args)
}

func chatShow(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "chat show", func() (interface{}, error) {
		store, err := env.Store()
		if err != nil {
			return nil, err
		}
		conv, err := resolveConversation(store, args.Parser.Positional(1), "nexus chat show <id>")
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			theme := styles.NewTheme(env.Config.UI.Theme)
			md := components.NewMarkdown(theme.IsDark, env.Config.UI.Markdown && ColorsEnabled())
			writeConversation(env.Stdout, conv, md, GetTerminalWidth()-2)
		}
		return conv, nil
	})
}

func chatRename(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "chat rename", func() (interface{}, error) {
		store, err := env.Store()
		if err != nil {
			return nil, err
		}
		const usage = "nexus chat rename <id> <title>"
		conv, err := resolveConversation(store, args.Parser.Positional(1), usage)
		if err != nil {
			return nil, err
		}
		title := JoinPositionalArgs(args.Parser, 2)
		if strings.TrimSpace(title) == "" {
			return nil, ErrMissingArgument("title", usage)
		}
		store.RenameConversation(conv.ID, title)
		renamed, err := store.Get(conv.ID)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Fprintf(env.Stdout, "Renamed to %q\n", renamed.Title)
		}
		return conversationSummary{ID: renamed.ID, Title: renamed.Title, Messages: renamed.MessageCount()}, nil
	})
}

func chatDelete(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "chat delete", func() (interface{}, error) {
		store, err := env.Store()
		if err != nil {
			return nil, err
		}
		const usage = "nexus chat delete <id> --confirm"
		conv, err := resolveConversation(store, args.Parser.Positional(1), usage)
		if err != nil {
			return nil, err
		}
		if err := env.confirm(args, fmt.Sprintf("Delete %q", conv.Title), usage); err != nil {
			return nil, err
		}
		store.DeleteConversation(conv.ID)
		if err := store.LastError(); err != nil {
			return nil, fmt.Errorf("chats not saved: %w", err)
		}
		if !args.JSON {
			fmt.Fprintf(env.Stdout, "Deleted %q\n", conv.Title)
		}
		return map[string]string{"deleted": conv.ID}, nil
	})
}

func resolveConversation(store *storage.ChatStore, ref, usage string) (*model.Conversation, error) {
	if ref == "" {
		return nil, ErrMissingArgument("id", usage)
	}
	conv, err := store.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return conv, nil
}
