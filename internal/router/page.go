// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"fmt"

	"github.com/nexus-campus/nexus-tui/internal/session"
)

// ============================================================================
// PAGE TYPE
// ============================================================================

// Page identifies one screen of the TUI.
type Page int

const (
	PageLogin Page = iota
	PageStudentDashboard
	PageStudentNotes
	PageStudentAssignments
	PageChat
	PageTeacherDashboard
	PageTeacherAttendance
	PageAdminDashboard
)

// pages lists every page in declaration order.
var pages = []Page{
	PageLogin,
	PageStudentDashboard,
	PageStudentNotes,
	PageStudentAssignments,
	PageChat,
	PageTeacherDashboard,
	PageTeacherAttendance,
	PageAdminDashboard,
}

// Pages returns every page.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// String returns the page's route name, matching the web client's page keys.
func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageStudentDashboard:
		return "student-dashboard"
	case PageStudentNotes:
		return "student-notes"
	case PageStudentAssignments:
		return "student-assignments"
	case PageChat:
		return "ai-chat"
	case PageTeacherDashboard:
		return "teacher-dashboard"
	case PageTeacherAttendance:
		return "teacher-start-attendance"
	case PageAdminDashboard:
		return "admin-dashboard"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

// Title is the heading shown above the page.
func (p Page) Title() string {
	switch p {
	case PageLogin:
		return "Sign in"
	case PageStudentDashboard:
		return "Student Dashboard"
	case PageStudentNotes:
		return "Notes"
	case PageStudentAssignments:
		return "Assignments"
	case PageChat:
		return "AI Assistant"
	case PageTeacherDashboard:
		return "Teacher Dashboard"
	case PageTeacherAttendance:
		return "Start Attendance"
	case PageAdminDashboard:
		return "Admin Dashboard"
	default:
		return p.String()
	}
}

// ParsePage looks a page up by route name.
func ParsePage(name string) (Page, error) {
	for _, p := range pages {
		if p.String() == name {
			return p, nil
		}
	}
	return PageLogin, fmt.Errorf("unknown page %q", name)
}

// Roles returns the roles allowed to view p. An empty result means the page
// is public.
func (p Page) Roles() []session.Role {
	switch p {
	case PageLogin:
		return nil
	case PageStudentDashboard, PageStudentNotes, PageStudentAssignments, PageChat:
		return []session.Role{session.RoleStudent}
	case PageTeacherDashboard, PageTeacherAttendance:
		return []session.Role{session.RoleTeacher}
	case PageAdminDashboard:
		return []session.Role{session.RoleAdmin}
	default:
		return []session.Role{}
	}
}
