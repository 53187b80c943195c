// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
)

type adminData struct {
	stats *api.AdminStats
}

func (m *Model) handleAdminData(msg statsMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.requestFailed(msg.err, "Failed to load stats")
		return nil
	}
	m.admin.stats = msg.stats
	return nil
}

func (m Model) adminView() string {
	t := m.theme
	if m.admin.stats == nil {
		return t.Card.Render(t.EmptyState.Render("No statistics loaded"))
	}
	s := m.admin.stats
	pairs := []components.Pair{
		{Label: "Students", Value: components.FormatCount(int64(s.Students))},
		{Label: "Teachers", Value: components.FormatCount(int64(s.Teachers))},
		{Label: "Admins", Value: components.FormatCount(int64(s.Admins))},
		{Label: "Total users", Value: components.FormatCount(int64(s.TotalUsers))},
	}
	return t.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Label.Render("Users"),
		"",
		components.KeyValues(t, pairs),
	))
}
