// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the NEXUS REST API.
package api

import (
	"fmt"
	"time"
)

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of POST /token.
type LoginRequest struct {
	Mobile   string `json:"mobile" validate:"required,numeric,min=10,max=15"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// =============================================================================
// CHATBOT
// =============================================================================

// ChatRequest is the body of POST /chatbot/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the reply under one of several keys depending on
// the backend version.
type ChatResponse struct {
	Reply    string `json:"reply,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Response string `json:"response,omitempty"`
}

// Text returns the first non-empty of reply, answer and response.
func (r *ChatResponse) Text() string {
	for _, s := range []string{r.Reply, r.Answer, r.Response} {
		if s != "" {
			return s
		}
	}
	return ""
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// MarkAttendanceRequest is the body of POST /student/attendance/mark.
// Exactly one field is set: SessionCode for a scanned QR, DigitCode for a
// typed code.
type MarkAttendanceRequest struct {
	SessionCode string `json:"session_code,omitempty"`
	DigitCode   string `json:"digit_code,omitempty" validate:"omitempty,len=6,numeric"`
}

// MessageResponse is the generic {"message": ...} success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// AttendanceSummary is one row of GET /student/attendance/summary.
type AttendanceSummary struct {
	Subject     string `json:"subject"`
	PresentDays int    `json:"present_days"`
}

// StartAttendanceRequest is the body of POST /teacher/attendance/start.
type StartAttendanceRequest struct {
	Subject string `json:"subject" validate:"required"`
	Year    int    `json:"year" validate:"required,min=1,max=6"`
}

// AttendanceSession is returned by POST /teacher/attendance/start.
type AttendanceSession struct {
	SessionID   int64  `json:"session_id"`
	SessionCode string `json:"session_code"`
	DigitCode   string `json:"digit_code"`
	ExpiresAt   string `json:"expires_at"`
}

// The server sends naive UTC timestamps, with or without fractional seconds.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Expiry parses ExpiresAt. Timestamps without a zone are UTC.
func (s *AttendanceSession) Expiry() (time.Time, error) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s.ExpiresAt); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized expires_at %q", s.ExpiresAt)
}

// Remaining returns the time left before the session expires at now,
// zero once it has expired or when the expiry cannot be read.
func (s *AttendanceSession) Remaining(now time.Time) time.Duration {
	exp, err := s.Expiry()
	if err != nil || !now.Before(exp) {
		return 0
	}
	return exp.Sub(now)
}

// FormatCountdown renders d as mm:ss, rounding down to whole seconds.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// =============================================================================
// STUDENT CONTENT
// =============================================================================

// Note is one entry of GET /notes/student.
type Note struct {
	ID         int64  `json:"id"`
	Subject    string `json:"subject"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at"`
}

// Assignment is one entry of GET /student/assignments/.
type Assignment struct {
	AssignmentID   int64    `json:"assignment_id"`
	Subject        string   `json:"subject"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	DueDate        string   `json:"due_date"`
	AssignmentFile string   `json:"assignment_file"`
	Status         string   `json:"status"`
	Score          *float64 `json:"score"`
	Remarks        string   `json:"remarks"`
}

// =============================================================================
// ADMIN
// =============================================================================

// AdminStats is returned by GET /admin/admin/stats.
type AdminStats struct {
	Students   int `json:"students"`
	Teachers   int `json:"teachers"`
	Admins     int `json:"admins"`
	TotalUsers int `json:"total_users"`
}
