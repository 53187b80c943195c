// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the nexus TUI.

# Color System (colors.go)

The palette follows the NEXUS web client: a gold accent on deep navy
surfaces, with a muted slate for secondary elements and a brick red for
errors. Every color is a Lip Gloss AdaptiveColor so light terminals get a
readable counterpart.

	Gold     - accent, headings, selected sidebar entry
	Navy     - page background
	NavyDim  - panels (sidebar, modal)
	Slate    - borders, user bubbles
	Brick    - errors, destructive confirmations

# Theme (theme.go)

NewTheme builds every style once. The mode is "dark", "light" or "auto";
auto asks termenv whether the terminal background is dark.

	theme := styles.NewTheme(cfg.UI.Theme)
	fmt.Println(theme.Title.Render("Student Dashboard"))

# Status Helpers

RenderSuccess, RenderError, RenderWarning and RenderInfo print a message
with an ASCII indicator in front so status never depends on color alone.
*/
package styles
