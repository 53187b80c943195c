// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attendance implements the attendance capture flow.
package attendance

import (
	"context"
	"errors"
	"sync"

	"github.com/nexus-campus/nexus-tui/internal/api"
)

// Messages shown to the user.
const (
	FailedText  = "Failed to mark attendance"
	InvalidText = "Please enter 6-digit code"
	SuccessText = "Attendance marked"
)

var (
	// ErrInvalidCode is returned by SubmitManual for anything but 6 digits.
	ErrInvalidCode = errors.New("please enter 6-digit code")

	// ErrBusy is returned for input while a submission is in flight or done.
	ErrBusy = errors.New("attendance submission already in progress")

	// ErrNoSession is returned by Scanned when the text carries no session token.
	ErrNoSession = errors.New("scanned code has no attendance session")
)

// =============================================================================
// PHASE
// =============================================================================

// Phase is the capture state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseSubmitting
	PhaseSuccess
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScanning:
		return "scanning"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether new input must be rejected.
func (p Phase) Busy() bool {
	return p == PhaseSubmitting || p == PhaseSuccess
}

// =============================================================================
// CAPTURE
// =============================================================================

// Marker submits an attendance mark. *api.Client implements it.
type Marker interface {
	MarkAttendance(ctx context.Context, req api.MarkAttendanceRequest) error
}

// Capture is one attendance capture session.
type Capture struct {
	mu        sync.Mutex
	phase     Phase
	scanning  bool
	manual    string
	reference string
	message   string
}

// NewCapture returns a capture in the idle phase.
func NewCapture() *Capture {
	return &Capture{}
}

// StartScanning moves idle to scanning.
func (c *Capture) StartScanning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanning = true
	if c.phase == PhaseIdle {
		c.phase = PhaseScanning
	}
}

// StopScanning marks the scanner as stopped; a scanning capture goes idle.
func (c *Capture) StopScanning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanning = false
	if c.phase == PhaseScanning {
		c.phase = PhaseIdle
	}
}

// Scanned handles decoded QR text. Text without a session token is ignored
// and ErrNoSession returned; the phase does not change.
func (c *Capture) Scanned(text string) (api.MarkAttendanceRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase.Busy() {
		return api.MarkAttendanceRequest{}, ErrBusy
	}
	session, ok := ParseScan(text)
	if !ok {
		return api.MarkAttendanceRequest{}, ErrNoSession
	}
	c.beginLocked(session)
	return api.MarkAttendanceRequest{SessionCode: session}, nil
}

// SetManualCode stores the digits of input, capped at six, and returns them.
func (c *Capture) SetManualCode(input string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manual = SanitizeCode(input)
	return c.manual
}

// SubmitManual starts a submission of the manual code. Anything but six
// digits is rejected with ErrInvalidCode before any request is made.
func (c *Capture) SubmitManual() (api.MarkAttendanceRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase.Busy() {
		return api.MarkAttendanceRequest{}, ErrBusy
	}
	if !ValidCode(c.manual) {
		c.message = InvalidText
		return api.MarkAttendanceRequest{}, ErrInvalidCode
	}
	c.beginLocked(c.manual)
	return api.MarkAttendanceRequest{DigitCode: c.manual}, nil
}

func (c *Capture) beginLocked(reference string) {
	c.phase = PhaseSubmitting
	c.reference = reference
	c.message = ""
}

// Resolve records the outcome of a submission. A nil error moves to
// success; anything else to error with the server's reason, or the generic
// failure text when there is none. Ignored unless submitting.
func (c *Capture) Resolve(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseSubmitting {
		return
	}
	if err == nil {
		c.phase = PhaseSuccess
		c.message = SuccessText
		return
	}
	c.phase = PhaseError
	c.message = api.Detail(err, FailedText)
}

// Acknowledge dismisses an error, returning to scanning if the scanner is
// still running and to idle otherwise.
func (c *Capture) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseError {
		return
	}
	c.message = ""
	c.reference = ""
	if c.scanning {
		c.phase = PhaseScanning
	} else {
		c.phase = PhaseIdle
	}
}

// Cancel closes the capture. It fails with ErrBusy while submitting.
func (c *Capture) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitting {
		return ErrBusy
	}
	c.scanning = false
	return nil
}

// Submit sends req through m and resolves the capture with the result.
func (c *Capture) Submit(ctx context.Context, m Marker, req api.MarkAttendanceRequest) error {
	err := m.MarkAttendance(ctx, req)
	c.Resolve(err)
	return err
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Phase returns the current phase.
func (c *Capture) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// ManualCode returns the sanitized manual code.
func (c *Capture) ManualCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manual
}

// Reference returns the scanned session token or manual code being submitted.
func (c *Capture) Reference() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reference
}

// Message returns the status text for the current phase.
func (c *Capture) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Scanning reports whether the scanner is running.
func (c *Capture) Scanning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanning
}
