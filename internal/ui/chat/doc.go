// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the AI assistant page of the nexus TUI.

The page has a sidebar of conversations (newest first, "+ New chat" on top)
and a message pane with an input line underneath. Sending a message with no
active conversation starts one. The reply is requested in the background
and then revealed progressively into the conversation it was asked in.

# Keys

	enter      send, or open the selected sidebar entry
	tab        move focus between input and sidebar
	ctrl+n     new chat
	ctrl+r     rename the selected chat
	ctrl+d     delete the selected chat (asks first)
	pgup/pgdn  scroll messages
	esc        finish the running reveal, or leave the page

# Usage

	page := chat.New(chat.Options{
		Store:    store,
		Exchange: chatsvc.NewExchange(client),
		Theme:    theme,
	})
*/
package chat
