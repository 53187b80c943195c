// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/api"
	core "github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/router"
)

// defaultYears is offered when a subject reports no years.
var defaultYears = []int{1, 2, 3, 4}

type teacherData struct {
	subjects []string
	cursor   int

	subject    string
	years      []int
	yearCursor int

	started *api.AttendanceSession
	qr      *core.SessionQR
	now     time.Time
}

func (d *teacherData) selectedSubject() string {
	if d.cursor < 0 || d.cursor >= len(d.subjects) {
		return ""
	}
	return d.subjects[d.cursor]
}

func (d *teacherData) selectedYear() int {
	if d.yearCursor < 0 || d.yearCursor >= len(d.years) {
		return 0
	}
	return d.years[d.yearCursor]
}

func (d *teacherData) expired() bool {
	return d.started == nil || d.started.Remaining(d.now) <= 0
}

func moveCursor(cursor, n int, key string) int {
	switch key {
	case "up", "k":
		cursor--
	case "down", "j":
		cursor++
	}
	return min(max(cursor, 0), max(n-1, 0))
}

func (m *Model) updateTeacher(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if m.page == router.PageTeacherDashboard {
		if k == "enter" {
			subject := m.teacher.selectedSubject()
			if subject == "" {
				return nil
			}
			return m.startLoading(yearsCmd(m.backend, subject))
		}
		m.teacher.cursor = moveCursor(m.teacher.cursor, len(m.teacher.subjects), k)
		return nil
	}

	if m.loading {
		return nil
	}
	if m.teacher.started != nil && !m.teacher.expired() {
		return nil
	}
	if k == "enter" {
		req := api.StartAttendanceRequest{Subject: m.teacher.subject, Year: m.teacher.selectedYear()}
		if err := api.Validate(req); err != nil {
			m.setStatus("Subject and year are required", true)
			return nil
		}
		m.teacher.started, m.teacher.qr = nil, nil
		m.setStatus("Starting...", false)
		return m.startLoading(startSessionCmd(m.backend, req))
	}
	m.teacher.yearCursor = moveCursor(m.teacher.yearCursor, len(m.teacher.years), k)
	return nil
}

func (m *Model) handleTeacherData(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case subjectsMsg:
		m.loading = false
		if msg.err != nil {
			m.requestFailed(msg.err, "Failed to load subjects")
			return nil
		}
		m.teacher.subjects = msg.subjects
		m.teacher.cursor = min(m.teacher.cursor, max(len(msg.subjects)-1, 0))

	case yearsMsg:
		m.loading = false
		if msg.err != nil {
			m.requestFailed(msg.err, "Failed to load years")
			return nil
		}
		years := msg.years
		if len(years) == 0 {
			years = defaultYears
		}
		m.teacher.subject = msg.subject
		m.teacher.years = years
		m.teacher.yearCursor = 0
		m.teacher.started, m.teacher.qr = nil, nil
		return m.navigate(router.PageTeacherAttendance)

	case sessionStartedMsg:
		m.loading = false
		if msg.err != nil {
			m.requestFailed(msg.err, "Failed to start attendance")
			return nil
		}
		qr, err := core.NewSessionQR(m.cfg.Attendance.ScanURLBase, msg.session.SessionCode, msg.session.DigitCode)
		if err != nil {
			m.logger.Printf("attendance: %v", err)
		}
		m.teacher.started = msg.session
		m.teacher.qr = qr
		m.teacher.now = time.Now()
		m.setStatus("Attendance Started", false)
		return clockCmd()

	case clockMsg:
		m.teacher.now = time.Time(msg)
		if m.page == router.PageTeacherAttendance && !m.teacher.expired() {
			return clockCmd()
		}
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) teacherView() string {
	if m.page == router.PageTeacherAttendance {
		return m.startAttendanceView()
	}

	t := m.theme
	lines := []string{t.Label.Render("Subjects"), ""}
	if len(m.teacher.subjects) == 0 {
		lines = append(lines, t.EmptyState.Render("No subjects assigned"))
	}
	for i, s := range m.teacher.subjects {
		if i == m.teacher.cursor {
			lines = append(lines, t.SidebarItemSelected.Render("> "+s))
			continue
		}
		lines = append(lines, t.SidebarItem.Render("  "+s))
	}
	lines = append(lines, "", t.Help.Render("enter start attendance"))
	return t.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) startAttendanceView() string {
	t := m.theme
	d := m.teacher

	if d.started == nil {
		lines := []string{
			t.Title.Render("Start Attendance"),
			t.Subtitle.Render("Create a new attendance session for your class"),
			"",
			t.Label.Render("Subject  ") + t.Value.Render(d.subject),
			"",
		}
		for i, y := range d.years {
			label := fmt.Sprintf("%d Year", y)
			if i == d.yearCursor {
				lines = append(lines, t.SidebarItemSelected.Render("> "+label))
				continue
			}
			lines = append(lines, t.SidebarItem.Render("  "+label))
		}
		button := "Start Attendance"
		if m.loading {
			button = "Starting..."
		}
		lines = append(lines, "", t.Button.Render(button))
		return t.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	lines := []string{
		t.Title.Render("Attendance Started"),
		"",
		t.CodeBox.Render(d.started.DigitCode),
	}
	if d.qr != nil {
		lines = append(lines, "", d.qr.Terminal(!t.IsDark))
	}
	if d.expired() {
		lines = append(lines, t.ErrorStyle.Render("Attendance session expired"), t.Help.Render("enter start again"))
	} else {
		lines = append(lines, t.SuccessStyle.Render("Expires in "+api.FormatCountdown(d.started.Remaining(d.now))))
	}
	return t.Card.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
