// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the user declines a confirmation prompt.
var ErrCancelled = errors.New("cancelled")

// confirm asks before a destructive action. --confirm (or -y) skips the
// prompt. In JSON mode or without a terminal the flag is required.
func (e *Env) confirm(args Args, action, usage string) error {
	if args.Parser.BoolFlag("confirm") || args.Parser.BoolFlag("y") {
		return nil
	}
	if args.JSON || !e.Interactive {
		return &UsageError{
			Reason: fmt.Sprintf("%s? This action cannot be undone. Pass --confirm", action),
			Usage:  usage,
		}
	}

	answer, err := e.readLine(fmt.Sprintf("%s? This action cannot be undone. [y/N]: ", action))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return ErrCancelled
	}
}
