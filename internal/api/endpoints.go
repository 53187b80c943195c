// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the NEXUS REST API.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges a mobile number and password for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/token", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CHATBOT
// =============================================================================

// SendChatMessage posts one user message and returns the decoded reply.
func (c *Client) SendChatMessage(ctx context.Context, message string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chatbot/chat", ChatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// STUDENT
// =============================================================================

// MarkAttendance submits a scanned session code or a typed digit code.
func (c *Client) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) error {
	return c.do(ctx, http.MethodPost, "/student/attendance/mark", req, nil)
}

// AttendanceSummary returns present days per subject for the student.
func (c *Client) AttendanceSummary(ctx context.Context) ([]AttendanceSummary, error) {
	var rows []AttendanceSummary
	if err := c.do(ctx, http.MethodGet, "/student/attendance/summary", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// StudentNotes lists notes shared with the student.
func (c *Client) StudentNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, "/notes/student", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// StudentAssignments lists the student's assignments with submission status.
func (c *Client) StudentAssignments(ctx context.Context) ([]Assignment, error) {
	var list []Assignment
	if err := c.do(ctx, http.MethodGet, "/student/assignments/", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// =============================================================================
// TEACHER
// =============================================================================

// StartAttendance opens an attendance session for a subject and year.
func (c *Client) StartAttendance(ctx context.Context, req StartAttendanceRequest) (*AttendanceSession, error) {
	var sess AttendanceSession
	if err := c.do(ctx, http.MethodPost, "/teacher/attendance/start", req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// TeacherSubjects lists the subjects assigned to the teacher.
func (c *Client) TeacherSubjects(ctx context.Context) ([]string, error) {
	var subjects []string
	if err := c.do(ctx, http.MethodGet, "/teacher/attendance/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// SubjectYears lists the years the teacher teaches subject to.
func (c *Client) SubjectYears(ctx context.Context, subject string) ([]int, error) {
	var years []int
	path := "/teacher/attendance/subject-years/" + url.PathEscape(subject)
	if err := c.do(ctx, http.MethodGet, path, nil, &years); err != nil {
		return nil, err
	}
	return years, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// AdminStats returns user counts by role.
func (c *Client) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Ping checks that the server answers HTTP at all. Any response, even an
// error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/", nil, nil)
	if errors.Is(err, ErrTransport) {
		return err
	}
	return nil
}
