// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import "github.com/nexus-campus/nexus-tui/internal/session"

// ============================================================================
// ROUTING DECISION
// ============================================================================

// Outcome says how a requested page resolved.
type Outcome int

const (
	// Render shows the page.
	Render Outcome = iota
	// NeedLogin means there is no session; show the login form.
	NeedLogin
	// Unauthorized means the role may not view the page.
	Unauthorized
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case NeedLogin:
		return "need-login"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Guard reasons shown to the user.
const (
	NeedLoginText    = "Please login"
	UnauthorizedText = "Unauthorized"
)

// Decision is the result of Resolve.
type Decision struct {
	Page    Page
	Outcome Outcome
	Reason  string
}

// Home returns the landing page for role.
func Home(role session.Role) Page {
	switch role {
	case session.RoleStudent:
		return PageStudentDashboard
	case session.RoleTeacher:
		return PageTeacherDashboard
	case session.RoleAdmin:
		return PageAdminDashboard
	default:
		return PageLogin
	}
}

// Allowed reports whether role may view p.
func Allowed(role session.Role, p Page) bool {
	roles := p.Roles()
	if roles == nil {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Resolve decides what to show when page is requested by role. Login with
// an authenticated role redirects home; guarded pages without a role need
// login.
func Resolve(page Page, role session.Role) Decision {
	switch page {
	case PageLogin:
		if role != session.RoleNone {
			return Decision{Page: Home(role), Outcome: Render, Reason: "already signed in"}
		}
		return Decision{Page: PageLogin, Outcome: Render}
	case PageStudentDashboard, PageStudentNotes, PageStudentAssignments, PageChat,
		PageTeacherDashboard, PageTeacherAttendance,
		PageAdminDashboard:
		return guard(page, role)
	default:
		return Decision{Page: Home(role), Outcome: Unauthorized, Reason: "unknown page"}
	}
}

func guard(page Page, role session.Role) Decision {
	if role == session.RoleNone {
		return Decision{Page: PageLogin, Outcome: NeedLogin, Reason: NeedLoginText}
	}
	if !Allowed(role, page) {
		return Decision{Page: page, Outcome: Unauthorized, Reason: UnauthorizedText}
	}
	return Decision{Page: page, Outcome: Render}
}
