// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attendance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSessionQR(t *testing.T) {
	qr, err := NewSessionQR("https://nexus.example/scan", "tok-42", "123456")
	require.NoError(t, err)
	require.Equal(t, "https://nexus.example/scan?session=tok-42", qr.URL)
	require.Equal(t, "123456", qr.DigitCode)

	// The encoded URL must round-trip through the student's scan parser.
	ref, ok := ParseScan(qr.URL)
	require.True(t, ok)
	require.Equal(t, "tok-42", ref)

	art := qr.Terminal(false)
	require.NotEmpty(t, art)
	require.Greater(t, strings.Count(art, "\n"), 10)
}

func TestNewSessionQRInvalidBase(t *testing.T) {
	_, err := NewSessionQR("://bad", "tok", "123456")
	require.Error(t, err)
}

func TestSessionQRWritePNG(t *testing.T) {
	qr, err := NewSessionQR("https://nexus.example/scan", "tok", "000000")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.png")
	require.NoError(t, qr.WritePNG(path, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "\x89PNG"))
}
