// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticToken struct {
	tok string
}

func (s staticToken) BearerToken() (string, bool) {
	if s.tok == "" || s.tok == "undefined" {
		return "", false
	}
	return s.tok, true
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL).WithLogger(log.New(io.Discard, "", 0))
}

func TestSendChatMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chatbot/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if req.Message != "What is recursion?" {
			t.Errorf("message = %q", req.Message)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"A function calling itself."}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server).SendChatMessage(context.Background(), "What is recursion?")
	if err != nil {
		t.Fatalf("SendChatMessage failed: %v", err)
	}
	if resp.Text() != "A function calling itself." {
		t.Errorf("Text() = %q", resp.Text())
	}
}

func TestChatResponseText(t *testing.T) {
	tests := []struct {
		name string
		resp ChatResponse
		want string
	}{
		{"reply wins", ChatResponse{Reply: "r", Answer: "a", Response: "x"}, "r"},
		{"answer next", ChatResponse{Answer: "a", Response: "x"}, "a"},
		{"response last", ChatResponse{Response: "x"}, "x"},
		{"empty", ChatResponse{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBearerHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"token", "abc", "Bearer abc"},
		{"empty", "", ""},
		{"undefined", "undefined", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = "unset"
			client := newTestClient(server).WithTokenSource(staticToken{tt.token})
			if _, err := client.StudentNotes(context.Background()); err != nil {
				t.Fatalf("StudentNotes failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkAttendanceServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req MarkAttendanceRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.DigitCode != "123456" || req.SessionCode != "" {
			t.Errorf("request = %+v", req)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Session expired"}`))
	}))
	defer server.Close()

	err := newTestClient(server).MarkAttendance(context.Background(), MarkAttendanceRequest{DigitCode: "123456"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", apiErr.Status)
	}
	if got := Detail(err, "Failed to mark attendance"); got != "Session expired" {
		t.Errorf("Detail() = %q, want %q", got, "Session expired")
	}
}

func TestDetailFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no body", ``, "fallback"},
		{"html", `<html>oops</html>`, "fallback"},
		{"validation list", `{"detail":[{"loc":["body","digit_code"],"msg":"field required"}]}`, "field required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := newTestClient(server).MarkAttendance(context.Background(), MarkAttendanceRequest{SessionCode: "s"})
			if got := Detail(err, "fallback"); got != tt.want {
				t.Errorf("Detail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).WithLogger(log.New(io.Discard, "", 0)).SendChatMessage(context.Background(), "hi")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
	if got := Detail(err, "Failed to mark attendance"); got != "Failed to mark attendance" {
		t.Errorf("Detail() = %q, want fallback", got)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server).WithTimeout(50 * time.Millisecond)
	_, err := client.AdminStats(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport on timeout, got %v", err)
	}
}

func TestUnauthorizedMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).StudentAssignments(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("401 must not match ErrForbidden")
	}
}

func TestLoginAndTeacherEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Mobile != "9876543210" || req.Password != "pw" {
			t.Errorf("login request = %+v", req)
		}
		w.Write([]byte(`{"access_token":"tok","role":"teacher"}`))
	})
	mux.HandleFunc("/teacher/attendance/start", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session_id":7,"session_code":"abc-123","digit_code":"482913","expires_at":"2026-10-14T10:05:00"}`))
	})
	mux.HandleFunc("/teacher/attendance/subjects", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["Physics","Maths"]`))
	})
	mux.HandleFunc("/teacher/attendance/subject-years/Physics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[2,3]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server)
	ctx := context.Background()

	login, err := client.Login(ctx, LoginRequest{Mobile: "9876543210", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.AccessToken != "tok" || login.Role != "teacher" {
		t.Errorf("login = %+v", login)
	}

	sess, err := client.StartAttendance(ctx, StartAttendanceRequest{Subject: "Physics", Year: 2})
	if err != nil {
		t.Fatalf("StartAttendance failed: %v", err)
	}
	if sess.SessionCode != "abc-123" || sess.DigitCode != "482913" || sess.SessionID != 7 {
		t.Errorf("session = %+v", sess)
	}

	subjects, err := client.TeacherSubjects(ctx)
	if err != nil || len(subjects) != 2 {
		t.Errorf("TeacherSubjects() = %v, %v", subjects, err)
	}

	years, err := client.SubjectYears(ctx, "Physics")
	if err != nil || len(years) != 2 || years[1] != 3 {
		t.Errorf("SubjectYears() = %v, %v", years, err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(LoginRequest{Mobile: "9876543210", Password: "x"}); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}

	err := Validate(LoginRequest{Mobile: "98a", Password: ""})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Errorf("expected password error, got %v", ve.Fields)
	}
	if _, ok := ve.Fields["mobile"]; !ok {
		t.Errorf("expected mobile error, got %v", ve.Fields)
	}

	if err := Validate(MarkAttendanceRequest{DigitCode: "12345"}); err == nil {
		t.Error("expected 5-digit code to fail validation")
	}
	if err := Validate(MarkAttendanceRequest{SessionCode: "tok"}); err != nil {
		t.Errorf("session code request rejected: %v", err)
	}
}

func TestAttendanceSessionExpiry(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		expires string
		want    time.Duration
	}{
		{"2025-01-10T09:03:00", 3 * time.Minute},
		{"2025-01-10T09:02:30.123456", 2*time.Minute + 30*time.Second + 123456*time.Microsecond},
		{"2025-01-10T10:03:00+01:00", 3 * time.Minute},
		{"2025-01-10T08:59:00", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		s := &AttendanceSession{ExpiresAt: tt.expires}
		if got := s.Remaining(now); got != tt.want {
			t.Errorf("Remaining(%q) = %v, want %v", tt.expires, got, tt.want)
		}
	}

	if _, err := (&AttendanceSession{ExpiresAt: "soon"}).Expiry(); err == nil {
		t.Error("expected an error for an unreadable expiry")
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := map[time.Duration]string{
		0:                                     "00:00",
		-time.Second:                          "00:00",
		59*time.Second + 900*time.Millisecond: "00:59",
		3 * time.Minute:                       "03:00",
		12*time.Minute + 5*time.Second:        "12:05",
	}
	for d, want := range tests {
		if got := FormatCountdown(d); got != want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	if err := newTestClient(server).Ping(context.Background()); err != nil {
		t.Errorf("Ping with 404 = %v, want nil", err)
	}
	server.Close()

	if err := newTestClient(server).Ping(context.Background()); !errors.Is(err, ErrTransport) {
		t.Errorf("Ping after close = %v, want ErrTransport", err)
	}
}
