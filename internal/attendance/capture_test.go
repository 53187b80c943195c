// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attendance

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/nexus-campus/nexus-tui/internal/api"
)

type fakeMarker struct {
	calls []api.MarkAttendanceRequest
	err   error
}

func (f *fakeMarker) MarkAttendance(ctx context.Context, req api.MarkAttendanceRequest) error {
	f.calls = append(f.calls, req)
	return f.err
}

func TestManualCodeTooShort(t *testing.T) {
	c := NewCapture()
	m := &fakeMarker{}

	c.SetManualCode("12345")
	_, err := c.SubmitManual()
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("SubmitManual() error = %v, want ErrInvalidCode", err)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("Phase() = %s, want idle", c.Phase())
	}
	if c.Message() != InvalidText {
		t.Errorf("Message() = %q, want %q", c.Message(), InvalidText)
	}
	if len(m.calls) != 0 {
		t.Errorf("expected no network call, got %d", len(m.calls))
	}
}

func TestManualCodeServerRejects(t *testing.T) {
	c := NewCapture()
	m := &fakeMarker{err: &api.APIError{Status: http.StatusBadRequest, Detail: "Session expired"}}

	c.SetManualCode("123456")
	req, err := c.SubmitManual()
	if err != nil {
		t.Fatalf("SubmitManual failed: %v", err)
	}
	if req.DigitCode != "123456" || req.SessionCode != "" {
		t.Errorf("request = %+v", req)
	}
	if c.Phase() != PhaseSubmitting || c.Reference() != "123456" {
		t.Errorf("phase = %s, reference = %q", c.Phase(), c.Reference())
	}

	c.Submit(context.Background(), m, req)

	if c.Phase() != PhaseError {
		t.Errorf("Phase() = %s, want error", c.Phase())
	}
	if c.Message() != "Session expired" {
		t.Errorf("Message() = %q, want %q", c.Message(), "Session expired")
	}

	c.Acknowledge()
	if c.Phase() != PhaseIdle {
		t.Errorf("Phase() after Acknowledge = %s, want idle", c.Phase())
	}
}

func TestGenericFailureText(t *testing.T) {
	c := NewCapture()
	c.SetManualCode("654321")
	req, _ := c.SubmitManual()
	c.Submit(context.Background(), &fakeMarker{err: api.ErrTransport}, req)

	if c.Message() != FailedText {
		t.Errorf("Message() = %q, want %q", c.Message(), FailedText)
	}
}

func TestSetManualCodeSanitizes(t *testing.T) {
	c := NewCapture()
	tests := []struct {
		in   string
		want string
	}{
		{"12a3-4", "1234"},
		{"12345678", "123456"},
		{"", ""},
		{"٣٣٣", ""},
	}
	for _, tt := range tests {
		if got := c.SetManualCode(tt.in); got != tt.want {
			t.Errorf("SetManualCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScannedSubmitsOnce(t *testing.T) {
	c := NewCapture()
	c.StartScanning()
	if c.Phase() != PhaseScanning {
		t.Fatalf("Phase() = %s, want scanning", c.Phase())
	}

	req, err := c.Scanned("https://nexus.example.edu/attend?session=abc-123")
	if err != nil {
		t.Fatalf("Scanned failed: %v", err)
	}
	if req.SessionCode != "abc-123" || req.DigitCode != "" {
		t.Errorf("request = %+v", req)
	}

	if _, err := c.Scanned("https://nexus.example.edu/attend?session=abc-123"); !errors.Is(err, ErrBusy) {
		t.Errorf("second scan error = %v, want ErrBusy", err)
	}
	c.SetManualCode("123456")
	if _, err := c.SubmitManual(); !errors.Is(err, ErrBusy) {
		t.Errorf("manual during submit error = %v, want ErrBusy", err)
	}

	c.Resolve(nil)
	if c.Phase() != PhaseSuccess || c.Message() != SuccessText {
		t.Errorf("phase = %s, message = %q", c.Phase(), c.Message())
	}
	if _, err := c.Scanned("https://x.test/?session=again"); !errors.Is(err, ErrBusy) {
		t.Errorf("scan after success error = %v, want ErrBusy", err)
	}
}

func TestScannedIgnoresBadText(t *testing.T) {
	c := NewCapture()
	c.StartScanning()

	for _, text := range []string{"hello", "https://x.test/no-session", "https://x.test/?session=", "/relative?session=x"} {
		if _, err := c.Scanned(text); !errors.Is(err, ErrNoSession) {
			t.Errorf("Scanned(%q) error = %v, want ErrNoSession", text, err)
		}
		if c.Phase() != PhaseScanning {
			t.Errorf("Scanned(%q) moved phase to %s", text, c.Phase())
		}
	}
}

func TestAcknowledgeReturnsToScanning(t *testing.T) {
	c := NewCapture()
	c.StartScanning()
	c.Scanned("https://x.test/?session=s1")
	c.Resolve(errors.New("network down"))
	c.Acknowledge()

	if c.Phase() != PhaseScanning {
		t.Errorf("Phase() = %s, want scanning while the scanner runs", c.Phase())
	}
}

func TestRetryFromError(t *testing.T) {
	c := NewCapture()
	c.SetManualCode("111111")
	c.SubmitManual()
	c.Resolve(errors.New("x"))

	c.SetManualCode("222222")
	req, err := c.SubmitManual()
	if err != nil || req.DigitCode != "222222" {
		t.Errorf("retry from error = %+v, %v", req, err)
	}
}

func TestCancel(t *testing.T) {
	c := NewCapture()
	c.SetManualCode("123456")
	c.SubmitManual()
	if err := c.Cancel(); !errors.Is(err, ErrBusy) {
		t.Errorf("Cancel while submitting = %v, want ErrBusy", err)
	}
	c.Resolve(nil)
	if err := c.Cancel(); err != nil {
		t.Errorf("Cancel after success = %v", err)
	}
}

func TestResolveIgnoredOutsideSubmitting(t *testing.T) {
	c := NewCapture()
	c.Resolve(nil)
	if c.Phase() != PhaseIdle {
		t.Errorf("Phase() = %s, want idle", c.Phase())
	}
}
