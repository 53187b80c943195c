// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// maxCachedRenders bounds the render cache. Reveals re-render the growing
// last message on every tick, so the cache is dropped when it fills.
const maxCachedRenders = 256

// Markdown renders assistant replies. It falls back to the raw text when
// glamour fails, so output is never lost.
type Markdown struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
	disabled bool
}

// NewMarkdown creates a renderer using glamour's "dark" or "light" style.
// A disabled renderer returns text unchanged.
func NewMarkdown(dark, enabled bool) *Markdown {
	style := "light"
	if dark {
		style = "dark"
	}
	return &Markdown{style: style, disabled: !enabled, cache: make(map[string]string)}
}

// Render renders content wrapped at width cells.
func (m *Markdown) Render(content string, width int) string {
	if m == nil || m.disabled || strings.TrimSpace(content) == "" {
		return content
	}
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if width != m.width || m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.renderer = r
		m.width = width
		m.cache = make(map[string]string)
	}

	if out, ok := m.cache[content]; ok {
		return out
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	out = strings.Trim(out, "\n")
	if len(m.cache) >= maxCachedRenders {
		m.cache = make(map[string]string)
	}
	m.cache[content] = out
	return out
}
