// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SessionChangedMsg reports a session change observed on disk.
type SessionChangedMsg struct {
	State session.State
}

type loginResultMsg struct {
	resp   *api.LoginResponse
	mobile string
	err    error
}

type summaryMsg struct {
	rows []api.AttendanceSummary
	err  error
}

type notesMsg struct {
	notes []api.Note
	err   error
}

type assignmentsMsg struct {
	list []api.Assignment
	err  error
}

type subjectsMsg struct {
	subjects []string
	err      error
}

type yearsMsg struct {
	subject string
	years   []int
	err     error
}

type sessionStartedMsg struct {
	session *api.AttendanceSession
	err     error
}

type statsMsg struct {
	stats *api.AdminStats
	err   error
}

type clockMsg time.Time

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// waitForSession blocks on the next session event.
func waitForSession(events <-chan session.State) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-events
		if !ok {
			return nil
		}
		return SessionChangedMsg{State: st}
	}
}

func loginCmd(b Backend, req api.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := b.Login(context.Background(), req)
		return loginResultMsg{resp: resp, mobile: req.Mobile, err: err}
	}
}

func summaryCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		rows, err := b.AttendanceSummary(context.Background())
		return summaryMsg{rows: rows, err: err}
	}
}

func notesCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		notes, err := b.StudentNotes(context.Background())
		return notesMsg{notes: notes, err: err}
	}
}

func assignmentsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		list, err := b.StudentAssignments(context.Background())
		return assignmentsMsg{list: list, err: err}
	}
}

func subjectsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		subjects, err := b.TeacherSubjects(context.Background())
		return subjectsMsg{subjects: subjects, err: err}
	}
}

func yearsCmd(b Backend, subject string) tea.Cmd {
	return func() tea.Msg {
		years, err := b.SubjectYears(context.Background(), subject)
		return yearsMsg{subject: subject, years: years, err: err}
	}
}

func startSessionCmd(b Backend, req api.StartAttendanceRequest) tea.Cmd {
	return func() tea.Msg {
		sess, err := b.StartAttendance(context.Background(), req)
		return sessionStartedMsg{session: sess, err: err}
	}
}

func statsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		stats, err := b.AdminStats(context.Background())
		return statsMsg{stats: stats, err: err}
	}
}

func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}
