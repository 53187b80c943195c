// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - Command suggestion for typo correction.
package cli

import "strings"

// knownCommands lists every command word ParseArgs accepts, aliases included.
var knownCommands = []string{
	"tui",
	"login",
	"logout",
	"whoami",
	"chat",
	"ask",
	"attend",
	"attendance",
	"notes",
	"assignments",
	"teacher",
	"admin",
	"config",
	"doctor",
	"diag",
	"setup",
	"init",
	"version",
	"help",
	// Aliases
	"signin",  // login
	"signout", // logout
	"me",      // whoami
	"mark",    // attend
	"summary", // attendance
}

// SuggestCommand returns the known command closest to input, or "" when
// nothing is close enough to be a typo.
func SuggestCommand(input string) string {
	input = strings.ToLower(input)
	if len(input) < 2 {
		return ""
	}

	// Short words tolerate one edit, longer ones two or three.
	maxDistance := 1
	if len(input) >= 4 {
		maxDistance = 2
	}
	if len(input) > 8 {
		maxDistance = 3
	}

	best, bestDistance := "", maxDistance+1
	for _, cmd := range knownCommands {
		d := editDistance(input, cmd)
		if d == 0 {
			return ""
		}
		if d < bestDistance {
			best, bestDistance = cmd, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b, in runes.
func editDistance(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) == 0 {
		return len(t)
	}
	if len(t) == 0 {
		return len(s)
	}

	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s); i++ {
		curr[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(t)]
}
