// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attendance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidCode(tt.code); got != tt.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestScanURLRoundTrip(t *testing.T) {
	target, err := ScanURL("https://nexus.example.edu/student/attendance", "a b&c")
	if err != nil {
		t.Fatalf("ScanURL failed: %v", err)
	}
	got, ok := ParseScan(target)
	if !ok || got != "a b&c" {
		t.Errorf("ParseScan(%q) = %q, %v", target, got, ok)
	}
}

func TestSessionQR(t *testing.T) {
	qr, err := NewSessionQR("http://localhost:3000/student/attendance", "tok-1", "482913")
	if err != nil {
		t.Fatalf("NewSessionQR failed: %v", err)
	}
	if !strings.Contains(qr.URL, "session=tok-1") {
		t.Errorf("URL = %q", qr.URL)
	}
	art := qr.Terminal(false)
	if strings.Count(art, "\n") < 10 {
		t.Errorf("terminal QR looks too small:\n%s", art)
	}

	path := filepath.Join(t.TempDir(), "qr.png")
	if err := qr.WritePNG(path, 128); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Errorf("WritePNG did not produce a PNG (%d bytes, %v)", len(data), err)
	}
}
