// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/attendance"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitAuthError indicates a missing, expired or wrong-role session
	ExitAuthError = 4
	// ExitNetworkError indicates the server could not be reached
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports a command typed wrong, with the usage line to show.
type UsageError struct {
	Reason string
	Usage  string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s\nUsage: %s", e.Reason, e.Usage)
}

// ErrMissingArgument returns a UsageError for a missing argument.
func ErrMissingArgument(argName, usage string) error {
	return &UsageError{Reason: "missing required argument: " + argName, Usage: usage}
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError prints err to w. JSON mode errors were already printed as
// a JSONResponse by the command.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil || jsonMode {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())
}

// GetExitCode maps an error to the process exit status.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var invalid *api.ValidationError
	switch {
	case errors.As(err, &usage), errors.As(err, &invalid), errors.Is(err, attendance.ErrInvalidCode):
		return ExitUsageError
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, ErrSessionExpired), errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrForbidden):
		return ExitAuthError
	case errors.Is(err, api.ErrTransport):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}
