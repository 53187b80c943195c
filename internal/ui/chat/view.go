// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/model"
	"github.com/nexus-campus/nexus-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	main := m.viewport.View() + "\n" + m.theme.InputContainer.Width(m.mainWidth()).Render(m.inputView())

	if m.mode == modeConfirmDelete {
		main = lipgloss.Place(m.mainWidth(), max(m.height, 10), lipgloss.Center, lipgloss.Center,
			m.confirm.View(m.theme))
	}

	if m.theme.SidebarWidth() == 0 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) inputView() string {
	if m.mode == modeRename {
		return m.rename.View()
	}
	return m.input.View()
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) sidebarView() string {
	width := m.theme.SidebarWidth()
	titleWidth := min(width-3, m.titleWidth)
	active := m.store.ActiveID()

	var b strings.Builder
	newChat := "+ New chat"
	if m.focus == focusSidebar && m.cursor == 0 {
		b.WriteString(m.theme.SidebarItemSelected.Render(newChat))
	} else {
		b.WriteString(m.theme.NewChatButton.Render(newChat))
	}
	b.WriteString("\n\n")

	convs := m.store.Conversations()
	if len(convs) == 0 {
		b.WriteString(m.theme.EmptyState.Render(" No chats yet"))
	}
	for i, c := range convs {
		title := util.TruncateWidth(util.SingleLine(c.Title), titleWidth)
		marker := "  "
		if c.ID == active {
			marker = "* "
		}
		line := marker + title
		if m.focus == focusSidebar && m.cursor == i+1 {
			b.WriteString(m.theme.SidebarItemSelected.Render(line))
		} else if c.ID == active {
			b.WriteString(m.theme.Value.PaddingLeft(1).Render(line))
		} else {
			b.WriteString(m.theme.SidebarItem.Render(line))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.Width(width).Height(max(m.height, 1)).Render(b.String())
}

// =============================================================================
// MESSAGE PANE
// =============================================================================

// refresh rebuilds the viewport from the active conversation, following
// the bottom if the user had not scrolled away from it.
func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderMessages() string {
	conv := m.store.Active()
	width := m.mainWidth()
	if conv == nil {
		return lipgloss.Place(width, max(m.viewport.Height, 1), lipgloss.Center, lipgloss.Center,
			m.theme.EmptyState.Render(EmptyText))
	}

	revealingID, _, revealing := m.revealer.Active()
	revealing = revealing && revealingID == conv.ID

	bubbleWidth := max(width-8, 16)
	var parts []string
	for i, msg := range conv.Messages {
		last := i == len(conv.Messages)-1
		parts = append(parts, m.renderMessage(msg, bubbleWidth, revealing && last))
	}
	if m.loading && m.pendingConv == conv.ID {
		parts = append(parts, m.spinner.View()+" "+m.theme.Subtitle.Render("Thinking..."))
	}
	if len(parts) == 0 {
		parts = append(parts, m.theme.EmptyState.Render("Ask a question to get started."))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage draws one bubble. A message still being revealed is shown
// as plain text; markdown is rendered once it is complete.
func (m Model) renderMessage(msg model.Message, width int, partial bool) string {
	label := m.theme.Label.Render(msg.Role.DisplayName())
	if msg.IsUser() {
		body := m.theme.UserBubble.Width(width).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Right, label, body)
	}

	content := msg.Content
	if !partial {
		content = m.markdown.Render(content, width-4)
	}
	body := m.theme.AssistantBubble.Width(width).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}
