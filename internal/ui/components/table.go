// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
	"github.com/nexus-campus/nexus-tui/internal/util"
)

// =============================================================================
// KEY/VALUE AND LIST RENDERING
// =============================================================================

// Pair is one labelled value.
type Pair struct {
	Label string
	Value string
}

// KeyValues renders pairs with labels right-aligned to the widest label.
func KeyValues(theme *styles.Theme, pairs []Pair) string {
	labelWidth := 0
	for _, p := range pairs {
		if w := runewidth.StringWidth(p.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		pad := strings.Repeat(" ", labelWidth-runewidth.StringWidth(p.Label))
		lines = append(lines, pad+theme.Label.Render(p.Label)+"  "+theme.Value.Render(p.Value))
	}
	return strings.Join(lines, "\n")
}

// Column describes one column of a List.
type Column struct {
	Title string
	Width int
}

// List renders rows under a header, cutting cells to their column width.
// An empty list shows empty instead.
func List(theme *styles.Theme, cols []Column, rows [][]string, empty string) string {
	if len(rows) == 0 {
		return theme.EmptyState.Render(empty)
	}

	var b strings.Builder
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = util.PadWidth(c.Title, c.Width)
	}
	b.WriteString(theme.Label.Render(strings.Join(header, "  ")))

	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cell := ""
			if i < len(row) {
				cell = util.SingleLine(row[i])
			}
			cells[i] = util.PadWidth(cell, c.Width)
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	return b.String()
}
