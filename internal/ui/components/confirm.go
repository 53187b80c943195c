// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmResult is what a Confirm dialog resolved to.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmYes
	ConfirmNo
)

var (
	confirmYesKey = key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "confirm"))
	confirmNoKey  = key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel"))
)

// Confirm asks a yes/no question before a destructive action.
type Confirm struct {
	Title   string
	Body    string
	Subject string
	Danger  bool
}

// DeleteChatConfirm returns the dialog shown before deleting a conversation.
func DeleteChatConfirm(id string) Confirm {
	return Confirm{
		Title:   "Delete chat?",
		Body:    "This action cannot be undone.",
		Subject: id,
		Danger:  true,
	}
}

// HandleKey resolves the dialog for a key press.
func (c Confirm) HandleKey(msg tea.KeyMsg) ConfirmResult {
	switch {
	case key.Matches(msg, confirmYesKey):
		return ConfirmYes
	case key.Matches(msg, confirmNoKey):
		return ConfirmNo
	default:
		return ConfirmPending
	}
}

// View renders the dialog box.
func (c Confirm) View(theme *styles.Theme) string {
	var b strings.Builder
	b.WriteString(theme.ModalTitle.Render(c.Title))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(c.Body))
	b.WriteString("\n\n")

	yes := theme.Button.Render("Delete")
	if c.Danger {
		yes = theme.DangerButton.Render("Delete")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, yes, " ", theme.Button.Render("Cancel")))
	b.WriteString("\n")
	b.WriteString(theme.Help.Render("y confirm  n/esc cancel"))
	return theme.Modal.Render(b.String())
}
