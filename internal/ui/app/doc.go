// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app is the root Bubble Tea model of the nexus TUI.

It owns navigation (through router.Resolve), the login form and the role
dashboards, and hosts the chat page and the attendance modal. Every
network call runs as a tea.Cmd and reports back as a message; a 401 from
any of them signs the user out.

When the session file changes on disk (login or logout from another
terminal) the watcher's events arrive as SessionChangedMsg and the app
follows: a signed-out session returns to the login page.

	m := app.New(app.Options{Config: cfg, Session: sess, Client: client, Store: store})
	p := tea.NewProgram(m, tea.WithAltScreen())
*/
package app
