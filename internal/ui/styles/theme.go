// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// PAGE CHROME
	// ==========================================================================

	App      lipgloss.Style
	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Help     lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	NewChatButton       lipgloss.Style
	UserBubble          lipgloss.Style
	AssistantBubble     lipgloss.Style
	EmptyState          lipgloss.Style
	InputContainer      lipgloss.Style
	Spinner             lipgloss.Style

	// ==========================================================================
	// MODALS
	// ==========================================================================

	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	DangerButton lipgloss.Style
	Button       lipgloss.Style
	CodeBox      lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	StatusBar    lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light").
func NewTheme(mode string) *Theme {
	t := &Theme{
		IsDark:       resolveDark(mode),
		ColorProfile: termenv.ColorProfile(),
	}
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
	return t
}

func resolveDark(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDark:
		return true
	case ModeLight:
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Foreground(Gold).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Slate).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Gold)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Slate).
		Padding(0, 2)

	t.Label = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Value = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)

	// Chat
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Slate).
		PaddingRight(1)

	t.SidebarItem = lipgloss.NewStyle().Foreground(TextSecondary).PaddingLeft(1)
	t.SidebarItemSelected = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Gold)

	t.NewChatButton = lipgloss.NewStyle().Foreground(Gold).Bold(true).PaddingLeft(1)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Slate).
		Padding(0, 1).
		MarginLeft(6)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Gold).
		Padding(0, 1).
		MarginRight(6)

	t.EmptyState = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Slate)

	t.Spinner = lipgloss.NewStyle().Foreground(Gold)

	// Modals
	t.Modal = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Gold).
		Padding(1, 3)

	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Gold).MarginBottom(1)
	t.Button = lipgloss.NewStyle().Foreground(TextPrimary).Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).BorderForeground(Slate)
	t.DangerButton = t.Button.BorderForeground(Brick).Foreground(Brick)
	t.CodeBox = lipgloss.NewStyle().Bold(true).Foreground(Gold).Padding(0, 2).
		BorderStyle(lipgloss.DoubleBorder()).BorderForeground(Gold)

	// Status
	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.SuccessStyle = lipgloss.NewStyle().Foreground(Sage).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Brick).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Ochre).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Steel)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarWidth is the chat sidebar width for the current layout. Narrow
// terminals hide the sidebar.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 24
	default:
		return 32
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
