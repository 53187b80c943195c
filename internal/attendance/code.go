// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attendance implements the attendance capture flow.
package attendance

import (
	"net/url"
	"strings"

	"github.com/nexus-campus/nexus-tui/internal/util"
)

// CodeLength is the number of digits in a manual attendance code.
const CodeLength = 6

// SessionParam is the query parameter carrying the session token in QR URLs.
const SessionParam = "session"

// SanitizeCode keeps the digits of input, capped at CodeLength.
func SanitizeCode(input string) string {
	digits := util.DigitsOnly(input)
	if len(digits) > CodeLength {
		digits = digits[:CodeLength]
	}
	return digits
}

// ValidCode reports whether code is exactly CodeLength ASCII digits.
func ValidCode(code string) bool {
	return len(code) == CodeLength && util.DigitsOnly(code) == code
}

// ParseScan extracts the session token from decoded QR text. The text must
// be an absolute URL with a non-empty session query parameter.
func ParseScan(text string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	session := u.Query().Get(SessionParam)
	if session == "" {
		return "", false
	}
	return session, true
}

// ScanURL builds the URL a teacher's QR code encodes for sessionCode.
func ScanURL(base, sessionCode string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(SessionParam, sessionCode)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
