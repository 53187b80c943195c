// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attendance implements the attendance capture flow.
package attendance

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// =============================================================================
// SESSION QR CODES
// =============================================================================

// SessionQR is what a teacher displays for students to scan.
type SessionQR struct {
	URL       string
	DigitCode string
	code      *qrcode.QRCode
}

// NewSessionQR encodes the scan URL for sessionCode under base.
func NewSessionQR(base, sessionCode, digitCode string) (*SessionQR, error) {
	target, err := ScanURL(base, sessionCode)
	if err != nil {
		return nil, fmt.Errorf("build scan URL: %w", err)
	}
	code, err := qrcode.New(target, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode QR: %w", err)
	}
	return &SessionQR{URL: target, DigitCode: digitCode, code: code}, nil
}

// Terminal renders the code with half-block characters, two modules per
// cell row. inverse swaps colors for light terminal backgrounds.
func (q *SessionQR) Terminal(inverse bool) string {
	return q.code.ToSmallString(inverse)
}

// WritePNG saves the code as a size×size PNG, for projecting in class.
func (q *SessionQR) WritePNG(path string, size int) error {
	if size <= 0 {
		size = 256
	}
	return q.code.WriteFile(size, path)
}
