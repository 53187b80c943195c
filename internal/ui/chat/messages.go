// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	chatsvc "github.com/nexus-campus/nexus-tui/internal/chat"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyMsg carries the assistant's reply for conversation ConvID.
type ReplyMsg struct {
	ConvID string
	Text   string
}

// BackMsg asks the app to leave the chat page.
type BackMsg struct{}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendCmd requests a reply in the background. Exchange.Send never fails;
// errors arrive as the fixed error reply.
func sendCmd(ex *chatsvc.Exchange, convID, text string) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{ConvID: convID, Text: ex.Send(context.Background(), text)}
	}
}

func backCmd() tea.Msg {
	return BackMsg{}
}
