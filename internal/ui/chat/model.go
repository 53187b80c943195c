// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatsvc "github.com/nexus-campus/nexus-tui/internal/chat"
	"github.com/nexus-campus/nexus-tui/internal/storage"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// Placeholder is the input hint.
const Placeholder = "Ask anything educational..."

// EmptyText is shown when no conversation is active.
const EmptyText = "Start a new chat to begin"

// DefaultTitleWidth caps sidebar titles.
const DefaultTitleWidth = 28

// =============================================================================
// CHAT STATE
// =============================================================================

// focus says which part of the page receives keys.
type focus int

const (
	focusInput focus = iota
	focusSidebar
)

// mode is the page's modal state.
type mode int

const (
	modeNormal mode = iota
	modeRename
	modeConfirmDelete
)

// Options configures a chat page.
type Options struct {
	Store          *storage.ChatStore
	Exchange       *chatsvc.Exchange
	Theme          *styles.Theme
	Markdown       *components.Markdown
	RevealChunk    int
	RevealInterval time.Duration
	TitleWidth     int
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat page.
type Model struct {
	store    *storage.ChatStore
	exchange *chatsvc.Exchange
	revealer *chatsvc.Revealer
	theme    *styles.Theme
	markdown *components.Markdown
	keyMap   KeyMap

	width      int
	height     int
	titleWidth int

	viewport viewport.Model
	input    textinput.Model
	rename   textinput.Model
	spinner  spinner.Model

	focus   focus
	mode    mode
	confirm components.Confirm
	cursor  int // sidebar row; 0 is "+ New chat"

	loading     bool
	pendingConv string
}

// New creates the chat page. The page registers itself with the store so a
// running reveal ends when its conversation stops being active.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	interval := opts.RevealInterval
	if interval == 0 {
		interval = chatsvc.DefaultInterval
	}
	titleWidth := opts.TitleWidth
	if titleWidth <= 0 {
		titleWidth = DefaultTitleWidth
	}

	input := textinput.New()
	input.Placeholder = Placeholder
	input.Prompt = "> "
	input.PromptStyle = theme.Title
	input.Focus()

	rename := textinput.New()
	rename.Prompt = "Title: "
	rename.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		store:      opts.Store,
		exchange:   opts.Exchange,
		revealer:   chatsvc.NewRevealer(opts.Store, opts.RevealChunk, interval),
		theme:      theme,
		markdown:   opts.Markdown,
		keyMap:     DefaultKeyMap(),
		titleWidth: titleWidth,
		viewport:   viewport.New(80, 20),
		input:      input,
		rename:     rename,
		spinner:    sp,
	}
	opts.Store.OnChange(m.revealer.HandleChange)
	m.syncCursor()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize resizes the page to width×height cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	inputHeight := 2
	m.viewport.Width = m.mainWidth()
	m.viewport.Height = max(height-inputHeight, 3)
	m.input.Width = max(m.mainWidth()-4, 10)
	m.refresh()
}

func (m Model) mainWidth() int {
	sw := m.theme.SidebarWidth()
	if sw > 0 {
		sw++ // border
	}
	return max(m.width-sw, 20)
}

// Loading reports whether a reply is outstanding.
func (m Model) Loading() bool {
	return m.loading
}

// Revealing reports whether a reply is being revealed.
func (m Model) Revealing() bool {
	_, _, ok := m.revealer.Active()
	return ok
}

// Capturing reports whether the page wants every key, e.g. while renaming,
// so the app does not treat them as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode != modeNormal || m.focus == focusInput
}

// Status returns the status line text for the page.
func (m Model) Status() (text string, isError bool) {
	if err := m.store.LastError(); err != nil {
		return "Chats not saved: " + err.Error(), true
	}
	if m.loading {
		return "Waiting for reply...", false
	}
	return "", false
}

// KeyHelp returns the bindings to show in the status bar.
func (m Model) KeyHelp() []key.Binding {
	return m.keyMap.ShortHelp()
}

// CancelReveal writes the running reveal out in full.
func (m *Model) CancelReveal() {
	m.revealer.Cancel()
	m.refresh()
}
