// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
	"github.com/nexus-campus/nexus-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line of every page.
type StatusBar struct {
	Role    string
	Message string
	IsError bool
	Keys    []key.Binding
}

// View renders the bar into width cells. The role badge and status message
// are kept; key hints are dropped from the right when space runs out.
func (s StatusBar) View(theme *styles.Theme, width int) string {
	left := ""
	if s.Role != "" {
		left = theme.Title.Render("[" + s.Role + "]")
	}

	msg := util.SingleLine(s.Message)
	if msg != "" {
		if s.IsError {
			msg = theme.ErrorStyle.Render(msg)
		} else {
			msg = theme.InfoStyle.Render(msg)
		}
	}

	var hints []string
	for _, k := range s.Keys {
		if !k.Enabled() {
			continue
		}
		h := k.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}

	used := lipgloss.Width(left) + lipgloss.Width(msg) + 4
	var shown []string
	for _, h := range hints {
		if used+len(h)+2 > width && width > 0 {
			break
		}
		shown = append(shown, h)
		used += len(h) + 2
	}

	parts := []string{left, msg}
	if len(shown) > 0 {
		parts = append(parts, theme.Help.Render(strings.Join(shown, "  ")))
	}
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return theme.StatusBar.Render(strings.Join(nonEmpty, "  "))
}
