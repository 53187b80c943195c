// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Gold - Primary accent, headings, selections
var Gold = lipgloss.AdaptiveColor{Light: "#8A6D2F", Dark: "#C5A059"}

// GoldDim - Muted gold for hints next to accented text
var GoldDim = lipgloss.AdaptiveColor{Light: "#A88B4F", Dark: "#9C8150"}

// Slate - Borders, user bubbles, secondary buttons
var Slate = lipgloss.AdaptiveColor{Light: "#6B6F8A", Dark: "#4A4E69"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Brick - Errors and destructive actions
var Brick = lipgloss.AdaptiveColor{Light: "#9E3F3F", Dark: "#C56060"}

// Sage - Success states
var Sage = lipgloss.AdaptiveColor{Light: "#3F7A4F", Dark: "#7FB58C"}

// Ochre - Warnings
var Ochre = lipgloss.AdaptiveColor{Light: "#A0661C", Dark: "#E0A458"}

// Steel - Informational text
var Steel = lipgloss.AdaptiveColor{Light: "#2F5D8A", Dark: "#7AA2CF"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Navy - Main background
var Navy = lipgloss.AdaptiveColor{Light: "#F7F5F0", Dark: "#0B132B"}

// NavyDim - Panels: sidebar, cards, modal
var NavyDim = lipgloss.AdaptiveColor{Light: "#ECE8DF", Dark: "#1C2541"}

// NavyDeep - Assistant bubbles
var NavyDeep = lipgloss.AdaptiveColor{Light: "#E2DDD2", Dark: "#1A2233"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1A2233", Dark: "#E8E6E1"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4A4E69", Dark: "#A9ADC1"}

// TextMuted - Hints, placeholders, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#8B8FA3", Dark: "#6C7086"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators are ASCII-only so they render on every terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Sage).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Brick).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Ochre).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an informational message with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Steel).
		Render(StatusIndicators.Info + " " + message)
}

// RenderStatus picks RenderSuccess or RenderError.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
