// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// init configures lipgloss for this terminal: no colors when piped or
// when NO_COLOR is set.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Gold).MarginBottom(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(16)

	// ValueStyle is used for values
	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().Foreground(styles.Sage).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(styles.Brick).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(styles.Ochre)
	DimStyle     = lipgloss.NewStyle().Foreground(styles.TextMuted)

	// PromptStyle styles the chat REPL prompt
	PromptStyle = lipgloss.NewStyle().Foreground(styles.Gold).Bold(true)

	// CodeStyle shows a digit code in large spaced type
	CodeStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Gold).
			Padding(0, 2).BorderStyle(lipgloss.DoubleBorder()).BorderForeground(styles.Gold)
)

// RenderSeparator renders a horizontal rule, 60 cells unless width is given.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return DimStyle.Render(strings.Repeat("-", w))
}

// RenderField renders one "label  value" line.
func RenderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
