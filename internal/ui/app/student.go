// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/router"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
)

type studentData struct {
	summary     []api.AttendanceSummary
	notes       []api.Note
	assignments []api.Assignment
}

var studentMenu = []struct {
	key   string
	label string
}{
	{"1", "Mark attendance"},
	{"2", "Notes"},
	{"3", "Assignments"},
	{"4", "AI chat"},
}

func (m *Model) updateStudent(msg tea.KeyMsg) tea.Cmd {
	if m.page != router.PageStudentDashboard {
		return nil
	}
	switch msg.String() {
	case "1", "a":
		return m.openModal()
	case "2", "n":
		return m.navigate(router.PageStudentNotes)
	case "3":
		return m.navigate(router.PageStudentAssignments)
	case "4", "c":
		cmd := m.navigate(router.PageChat)
		return tea.Batch(cmd, m.chat.Init())
	}
	return nil
}

func (m *Model) handleStudentData(msg tea.Msg) tea.Cmd {
	m.loading = false
	switch msg := msg.(type) {
	case summaryMsg:
		if msg.err != nil {
			m.requestFailed(msg.err, "Failed to load attendance")
			return nil
		}
		m.student.summary = msg.rows
	case notesMsg:
		if msg.err != nil {
			m.requestFailed(msg.err, "Failed to load notes")
			return nil
		}
		m.student.notes = msg.notes
	case assignmentsMsg:
		if msg.err != nil {
			m.requestFailed(msg.err, "Failed to load assignments")
			return nil
		}
		m.student.assignments = msg.list
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) studentView() string {
	switch m.page {
	case router.PageStudentNotes:
		return m.notesView()
	case router.PageStudentAssignments:
		return m.assignmentsView()
	default:
		return m.dashboardView()
	}
}

func (m Model) dashboardView() string {
	t := m.theme

	menu := make([]string, 0, len(studentMenu)+1)
	menu = append(menu, t.Label.Render("Menu"))
	for _, item := range studentMenu {
		menu = append(menu, fmt.Sprintf("%s  %s", t.Title.Render(item.key), item.label))
	}

	rows := make([][]string, 0, len(m.student.summary))
	for _, s := range m.student.summary {
		rows = append(rows, []string{s.Subject, strconv.Itoa(s.PresentDays)})
	}
	summary := lipgloss.JoinVertical(lipgloss.Left,
		t.Label.Render("Attendance"),
		components.List(t, []components.Column{{Title: "Subject", Width: 24}, {Title: "Present", Width: 8}}, rows, "No attendance yet"),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		t.Card.Render(lipgloss.JoinVertical(lipgloss.Left, menu...)),
		t.Card.Render(summary),
	)
}

func (m Model) notesView() string {
	rows := make([][]string, 0, len(m.student.notes))
	for _, n := range m.student.notes {
		rows = append(rows, []string{n.Subject, n.Filename, n.UploadedAt})
	}
	cols := []components.Column{{Title: "Subject", Width: 18}, {Title: "File", Width: 32}, {Title: "Uploaded", Width: 20}}
	return m.theme.Card.Render(components.List(m.theme, cols, rows, "No notes uploaded"))
}

func (m Model) assignmentsView() string {
	rows := make([][]string, 0, len(m.student.assignments))
	for _, a := range m.student.assignments {
		rows = append(rows, []string{a.Subject, a.Title, a.DueDate, a.Status, components.FormatScore(a.Score)})
	}
	cols := []components.Column{
		{Title: "Subject", Width: 16},
		{Title: "Title", Width: 28},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Score", Width: 6},
	}
	return m.theme.Card.Render(components.List(m.theme, cols, rows, "No assignments"))
}
