// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attendance provides the student's "Mark Attendance" modal.
//
// The modal accepts a 6-digit code typed by hand, or a scanned session URL.
// Scanned text comes from an injected attendance.Scanner (a camera decoder
// or a reader on stdin); a HID scanner that types the URL into the input
// and presses Enter works without one.
package attendance

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	core "github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
	"github.com/nexus-campus/nexus-tui/internal/util"
)

// DefaultCloseDelay is how long the success message stays up.
const DefaultCloseDelay = 1200 * time.Millisecond

// =============================================================================
// MESSAGES
// =============================================================================

// CloseMsg tells the app the modal is done. Marked is true after a
// successful submission.
type CloseMsg struct {
	Marked bool
}

// ScannedMsg carries one decoded QR text.
type ScannedMsg struct {
	Text string
}

// ScanStoppedMsg reports that the scanner ended.
type ScanStoppedMsg struct {
	Err error
}

// ResultMsg carries the outcome of a submission.
type ResultMsg struct {
	Err error
}

type closeTickMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Options configures the modal.
type Options struct {
	Marker     core.Marker
	Scanner    core.Scanner
	CloseDelay time.Duration
	Theme      *styles.Theme
}

// Model is the Bubble Tea model of the modal.
type Model struct {
	capture    *core.Capture
	marker     core.Marker
	scanner    core.Scanner
	closeDelay time.Duration
	theme      *styles.Theme
	spinner    spinner.Model

	raw        string // typed text; digits for a code, or a scanned URL
	scanErr    string
	scanCtx    context.Context
	cancelScan context.CancelFunc
	closed     bool
}

// New creates the modal in the idle phase.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	delay := opts.CloseDelay
	if delay <= 0 {
		delay = DefaultCloseDelay
	}
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = theme.Spinner

	return Model{
		capture:    core.NewCapture(),
		marker:     opts.Marker,
		scanner:    opts.Scanner,
		closeDelay: delay,
		theme:      theme,
		spinner:    sp,
	}
}

// Init starts the scanner, if one is configured.
func (m *Model) Init() tea.Cmd {
	if m.scanner == nil {
		return nil
	}
	m.scanCtx, m.cancelScan = context.WithCancel(context.Background())
	m.capture.StartScanning()
	return tea.Batch(m.spinner.Tick, scanCmd(m.scanCtx, m.scanner))
}

// Phase returns the capture phase.
func (m Model) Phase() core.Phase {
	return m.capture.Phase()
}

// Message returns the status text shown in the modal.
func (m Model) Message() string {
	return m.capture.Message()
}

// Closed reports whether the modal has finished.
func (m Model) Closed() bool {
	return m.closed
}

// Stop ends the scanner. Safe to call more than once.
func (m *Model) Stop() {
	if m.cancelScan != nil {
		m.cancelScan()
	}
	m.capture.StopScanning()
}

// =============================================================================
// COMMANDS
// =============================================================================

func scanCmd(ctx context.Context, s core.Scanner) tea.Cmd {
	return func() tea.Msg {
		text, err := s.Scan(ctx)
		if err != nil {
			return ScanStoppedMsg{Err: err}
		}
		return ScannedMsg{Text: text}
	}
}

func submitCmd(marker core.Marker, req api.MarkAttendanceRequest) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Err: marker.MarkAttendance(context.Background(), req)}
	}
}

func (m *Model) nextScan() tea.Cmd {
	if m.scanCtx == nil || m.scanCtx.Err() != nil {
		return nil
	}
	return scanCmd(m.scanCtx, m.scanner)
}

func (m *Model) close(marked bool) tea.Cmd {
	m.Stop()
	m.closed = true
	return func() tea.Msg { return CloseMsg{Marked: marked} }
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}

	switch msg := msg.(type) {
	case ScannedMsg:
		return m, m.handleScan(msg.Text)

	case ScanStoppedMsg:
		m.capture.StopScanning()
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.scanErr = "Scanner stopped: " + msg.Err.Error()
		}
		return m, nil

	case ResultMsg:
		m.capture.Resolve(msg.Err)
		if m.capture.Phase() == core.PhaseSuccess {
			m.Stop()
			return m, tea.Tick(m.closeDelay, func(time.Time) tea.Msg { return closeTickMsg{} })
		}
		return m, nil

	case closeTickMsg:
		return m, m.close(true)

	case spinner.TickMsg:
		if !m.capture.Scanning() && m.capture.Phase() != core.PhaseSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleScan(text string) tea.Cmd {
	req, err := m.capture.Scanned(text)
	if err != nil {
		// Busy or no session token: keep reading.
		return m.nextScan()
	}
	return tea.Batch(submitCmd(m.marker, req), m.spinner.Tick, m.nextScan())
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	phase := m.capture.Phase()

	// An error stays until dismissed; the dismissing key does nothing else.
	if phase == core.PhaseError {
		m.capture.Acknowledge()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		if err := m.capture.Cancel(); err != nil {
			return m, nil
		}
		return m, m.close(m.capture.Phase() == core.PhaseSuccess)

	case tea.KeyEnter:
		if phase.Busy() {
			return m, nil
		}
		if m.urlMode() {
			text := m.raw
			m.raw = ""
			return m, m.handleScan(text)
		}
		req, err := m.capture.SubmitManual()
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(submitCmd(m.marker, req), m.spinner.Tick)

	case tea.KeyBackspace:
		if phase.Busy() || m.raw == "" {
			return m, nil
		}
		r := []rune(m.raw)
		m.raw = string(r[:len(r)-1])
		if !m.urlMode() {
			m.capture.SetManualCode(m.raw)
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if phase.Busy() {
			return m, nil
		}
		m.appendInput(string(msg.Runes))
		return m, nil
	}
	return m, nil
}

// appendInput adds typed text. Input starting with a letter is a scanned
// URL and kept whole; anything else is a code, digits only, at most six.
func (m *Model) appendInput(s string) {
	if m.raw == "" && startsWithLetter(s) || m.urlMode() {
		m.raw += s
		return
	}
	m.raw = m.capture.SetManualCode(m.raw + s)
}

// urlMode reports whether the input holds a URL rather than a code.
func (m Model) urlMode() bool {
	return m.raw != "" && !startsWithDigit(m.raw)
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the modal.
func (m Model) View() string {
	t := m.theme
	phase := m.capture.Phase()

	var b strings.Builder
	b.WriteString(t.ModalTitle.Render("Mark Attendance"))
	b.WriteString("\n")

	if phase == core.PhaseSuccess {
		b.WriteString(t.SuccessStyle.Render(styles.StatusIndicators.Success + " " + m.capture.Message()))
		return t.Modal.Render(b.String())
	}

	switch {
	case m.capture.Scanning():
		b.WriteString(m.spinner.View() + " " + t.Label.Render("Scanning for QR code..."))
	case m.scanErr != "":
		b.WriteString(t.WarningStyle.Render(m.scanErr))
	default:
		b.WriteString(t.Help.Render("Scan the QR into this field, or type the code."))
	}
	b.WriteString("\n\n")
	b.WriteString(t.Help.Render("OR"))
	b.WriteString("\n\n")

	if m.urlMode() {
		b.WriteString(t.Label.Render(util.TruncateWidth(m.raw, 44)))
	} else {
		b.WriteString(t.CodeBox.Render(codeSlots(m.capture.ManualCode())))
	}
	b.WriteString("\n\n")

	button := "Submit Code"
	if phase == core.PhaseSubmitting {
		button = m.spinner.View() + " Submitting..."
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		t.Button.Render(button), " ", t.Help.Render("enter"),
	))
	b.WriteString("\n")
	b.WriteString(t.Help.Render("esc Cancel"))

	if msg := m.capture.Message(); msg != "" {
		b.WriteString("\n\n")
		switch {
		case phase == core.PhaseError:
			b.WriteString(t.ErrorStyle.Render(styles.StatusIndicators.Error + " " + msg))
			b.WriteString("\n")
			b.WriteString(t.Help.Render("press any key"))
		default:
			b.WriteString(t.WarningStyle.Render(styles.StatusIndicators.Warning + " " + msg))
		}
	}
	return t.Modal.Render(b.String())
}

// codeSlots shows the typed digits with underscores for the rest.
func codeSlots(code string) string {
	slots := make([]string, core.CodeLength)
	for i := range slots {
		if i < len(code) {
			slots[i] = string(code[i])
		} else {
			slots[i] = "_"
		}
	}
	return strings.Join(slots, " ")
}
