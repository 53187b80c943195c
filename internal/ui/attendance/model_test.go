// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attendance

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	core "github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

type fakeMarker struct {
	mu    sync.Mutex
	calls []api.MarkAttendanceRequest
	err   error
}

func (f *fakeMarker) MarkAttendance(ctx context.Context, req api.MarkAttendanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.err
}

func newModal(marker *fakeMarker, scanner core.Scanner) Model {
	return New(Options{
		Marker:     marker,
		Scanner:    scanner,
		CloseDelay: time.Millisecond,
		Theme:      styles.NewTheme(styles.ModeDark),
	})
}

func typeKeys(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func enter(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

// runUntil executes cmd, unpacking batches, and returns the first message
// of type T.
func runUntil[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	if cmd == nil {
		t.Fatalf("expected a command producing %T", zero)
	}
	msg := cmd()
	if got, ok := msg.(T); ok {
		return got
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if got, ok := c().(T); ok {
				return got
			}
		}
	}
	t.Fatalf("no %T produced (got %T)", zero, msg)
	return zero
}

func TestShortCodeRejectedLocally(t *testing.T) {
	marker := &fakeMarker{}
	m := newModal(marker, nil)

	m = typeKeys(m, "12345")
	m, cmd := enter(m)
	if cmd != nil {
		t.Error("expected no submission")
	}
	if m.Message() != core.InvalidText {
		t.Errorf("Message() = %q, want %q", m.Message(), core.InvalidText)
	}
	if len(marker.calls) != 0 {
		t.Errorf("marker called %d times", len(marker.calls))
	}
}

func TestServerRejectionThenDismiss(t *testing.T) {
	marker := &fakeMarker{err: &api.APIError{Status: http.StatusBadRequest, Detail: "Session expired"}}
	m := newModal(marker, nil)

	m = typeKeys(m, "123456")
	m, cmd := enter(m)
	if m.Phase() != core.PhaseSubmitting {
		t.Fatalf("Phase() = %s, want submitting", m.Phase())
	}
	if !strings.Contains(m.View(), "Submitting...") {
		t.Error("view should show Submitting...")
	}

	m, _ = m.Update(runUntil[ResultMsg](t, cmd))
	if m.Phase() != core.PhaseError || m.Message() != "Session expired" {
		t.Errorf("phase = %s, message = %q", m.Phase(), m.Message())
	}
	if !strings.Contains(m.View(), "Session expired") {
		t.Error("view should show the server reason")
	}

	m = typeKeys(m, "x")
	if m.Phase() != core.PhaseIdle {
		t.Errorf("Phase() after dismiss = %s, want idle", m.Phase())
	}
	if len(marker.calls) != 1 || marker.calls[0].DigitCode != "123456" {
		t.Errorf("calls = %+v", marker.calls)
	}
}

func TestSuccessClosesAfterDelay(t *testing.T) {
	m := newModal(&fakeMarker{}, nil)
	m = typeKeys(m, "654321")
	m, cmd := enter(m)
	m, cmd = m.Update(runUntil[ResultMsg](t, cmd))

	if m.Phase() != core.PhaseSuccess {
		t.Fatalf("Phase() = %s, want success", m.Phase())
	}
	if !strings.Contains(m.View(), core.SuccessText) {
		t.Error("view should show the success text")
	}

	// Further input is ignored while the success message is up.
	m2, again := enter(m)
	if again != nil || m2.Phase() != core.PhaseSuccess {
		t.Error("input after success should be ignored")
	}

	m, cmd = m.Update(cmd())
	closeMsg := runUntil[CloseMsg](t, cmd)
	if !closeMsg.Marked || !m.Closed() {
		t.Errorf("close = %+v, closed = %v", closeMsg, m.Closed())
	}
}

func TestTypingKeepsDigits(t *testing.T) {
	m := newModal(&fakeMarker{}, nil)
	m = typeKeys(m, "12")
	m = typeKeys(m, "a")
	m = typeKeys(m, "3456789")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	if !strings.Contains(m.View(), "1 2 3 4 5 _") {
		t.Errorf("view does not show 12345:\n%s", m.View())
	}
}

func TestTypedScanURL(t *testing.T) {
	marker := &fakeMarker{}
	m := newModal(marker, nil)

	m = typeKeys(m, "https://nexus.example.edu/student/attendance?session=abc123")
	m, cmd := enter(m)
	runUntil[ResultMsg](t, cmd)

	if len(marker.calls) != 1 || marker.calls[0].SessionCode != "abc123" {
		t.Errorf("calls = %+v", marker.calls)
	}
	if m.Phase() != core.PhaseSubmitting {
		t.Errorf("Phase() = %s, want submitting", m.Phase())
	}
}

func TestScannerFeed(t *testing.T) {
	marker := &fakeMarker{}
	m := newModal(marker, core.NewLineScanner(strings.NewReader("")))
	m.Init()
	defer m.Stop()

	if !strings.Contains(m.View(), "Scanning") {
		t.Error("view should show scanning")
	}

	m, cmd := m.Update(ScannedMsg{Text: "not a url"})
	if cmd == nil {
		t.Error("unusable scan should keep reading")
	}
	if m.Phase() != core.PhaseScanning {
		t.Errorf("Phase() = %s, want scanning", m.Phase())
	}

	m, cmd = m.Update(ScannedMsg{Text: "https://x.test/a?session=s-1"})
	runUntil[ResultMsg](t, cmd)
	if len(marker.calls) != 1 || marker.calls[0].SessionCode != "s-1" {
		t.Errorf("calls = %+v", marker.calls)
	}

	// A second scan of the same code is ignored while submitting.
	m, _ = m.Update(ScannedMsg{Text: "https://x.test/a?session=s-1"})
	if len(marker.calls) != 1 {
		t.Errorf("duplicate scan submitted: %+v", marker.calls)
	}
}

func TestEscCloses(t *testing.T) {
	m := newModal(&fakeMarker{}, nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := runUntil[CloseMsg](t, cmd); got.Marked {
		t.Error("cancel should not report marked")
	}
	if !m.Closed() {
		t.Error("modal should be closed")
	}
}

func TestEscIgnoredWhileSubmitting(t *testing.T) {
	m := newModal(&fakeMarker{}, nil)
	m = typeKeys(m, "123456")
	m, _ = enter(m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.Closed() {
		t.Error("esc while submitting should be ignored")
	}
}
