// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	chatsvc "github.com/nexus-campus/nexus-tui/internal/chat"
	"github.com/nexus-campus/nexus-tui/internal/model"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ReplyMsg:
		return m, m.handleReply(msg)

	case chatsvc.RevealTickMsg:
		more := m.revealer.Step(msg.Gen)
		m.refresh()
		if more {
			return m, chatsvc.TickCmd(m.revealer.Interval(), msg.ConvID, msg.Gen)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// SENDING
// =============================================================================

// send appends the user's message and requests the reply. Blank input and
// input while a reply is outstanding are ignored.
func (m *Model) send() tea.Cmd {
	text := m.input.Value()
	if !chatsvc.Acceptable(text) || m.loading {
		return nil
	}

	if m.store.ActiveID() == "" {
		m.store.CreateConversation()
	}
	convID := m.store.ActiveID()
	m.store.AppendMessage(model.RoleUser, text)

	m.input.Reset()
	m.loading = true
	m.pendingConv = convID
	m.syncCursor()
	m.refresh()
	m.viewport.GotoBottom()

	return tea.Batch(m.spinner.Tick, sendCmd(m.exchange, convID, text))
}

// handleReply adds the reply to the conversation it was asked in. It is
// revealed progressively only if that conversation is still on screen.
func (m *Model) handleReply(msg ReplyMsg) tea.Cmd {
	m.loading = false
	m.pendingConv = ""

	if !m.store.AppendMessageTo(msg.ConvID, model.RoleAssistant, "") {
		// Deleted while waiting.
		m.refresh()
		return nil
	}
	if msg.ConvID != m.store.ActiveID() {
		m.store.CompleteLastMessage(msg.ConvID, msg.Text)
		m.refresh()
		return nil
	}

	gen := m.revealer.Begin(msg.ConvID, msg.Text)
	m.refresh()
	return chatsvc.TickCmd(m.revealer.Interval(), msg.ConvID, gen)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeRename:
		return m.handleRenameKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Back):
		if m.Revealing() {
			m.CancelReveal()
			return m, nil
		}
		if m.focus == focusSidebar {
			m.setFocus(focusInput)
			return m, nil
		}
		return m, backCmd

	case key.Matches(msg, m.keyMap.Focus):
		if m.theme.SidebarWidth() == 0 && m.focus == focusInput {
			return m, nil
		}
		if m.focus == focusInput {
			m.setFocus(focusSidebar)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.newChat()
		return m, nil

	case key.Matches(msg, m.keyMap.Rename):
		m.beginRename()
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if id := m.selectedID(); id != "" {
			m.confirm = components.DeleteChatConfirm(id)
			m.mode = modeConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if key.Matches(msg, m.keyMap.Submit) {
		return m, m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.store.Len() + 1
	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.cursor < rows-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keyMap.Submit):
		if m.cursor == 0 {
			m.newChat()
			return m, nil
		}
		if id := m.selectedID(); id != "" {
			m.store.SelectConversation(id)
			m.setFocus(focusInput)
			m.refresh()
			m.viewport.GotoBottom()
		}
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if id := m.selectedID(); id != "" {
			m.store.RenameConversation(id, m.rename.Value())
		}
		m.endRename()
		return m, nil
	case tea.KeyEsc:
		m.endRename()
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.confirm.HandleKey(msg) {
	case components.ConfirmYes:
		m.store.DeleteConversation(m.confirm.Subject)
		m.mode = modeNormal
		m.syncCursor()
		m.refresh()
	case components.ConfirmNo:
		m.mode = modeNormal
	}
	return m, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m *Model) newChat() {
	m.store.CreateConversation()
	m.setFocus(focusInput)
	m.syncCursor()
	m.refresh()
}

func (m *Model) beginRename() {
	id := m.selectedID()
	if id == "" {
		return
	}
	conv, err := m.store.Get(id)
	if err != nil {
		return
	}
	m.rename.SetValue(conv.Title)
	m.rename.CursorEnd()
	m.rename.Focus()
	m.input.Blur()
	m.mode = modeRename
}

func (m *Model) endRename() {
	m.mode = modeNormal
	m.rename.Blur()
	if m.focus == focusInput {
		m.input.Focus()
	}
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
		m.syncCursor()
	} else {
		m.input.Blur()
	}
}

// selectedID is the conversation the sidebar cursor is on, or the active
// conversation while the input has focus.
func (m Model) selectedID() string {
	if m.focus == focusInput {
		return m.store.ActiveID()
	}
	convs := m.store.Conversations()
	if m.cursor < 1 || m.cursor > len(convs) {
		return ""
	}
	return convs[m.cursor-1].ID
}

// syncCursor puts the sidebar cursor on the active conversation.
func (m *Model) syncCursor() {
	active := m.store.ActiveID()
	m.cursor = 0
	for i, c := range m.store.Conversations() {
		if c.ID == active {
			m.cursor = i + 1
			return
		}
	}
}
