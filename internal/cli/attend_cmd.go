// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/nexus-campus/nexus-tui/internal/api"
	core "github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/session"
)

const attendUsage = "nexus attend [--code 123456 | --scan | --decode-cmd CMD]"

// attendResult is printed by `nexus attend --json`.
type attendResult struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// HandleAttend marks attendance with a typed code or a scanned QR.
//
//	--code N          submit the 6-digit code
//	--scan            read decoded QR text line by line from stdin
//	--decode-cmd CMD  run CMD per frame, its stdout is the decoded text
//
// With none of these the code is prompted for.
func HandleAttend(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "attend", func() (interface{}, error) {
		if err := env.requireRole(session.RoleStudent); err != nil {
			return nil, err
		}

		capture := core.NewCapture()
		var (
			req    api.MarkAttendanceRequest
			method string
			err    error
		)

		switch {
		case args.Parser.BoolFlag("scan") || args.Parser.HasFlag("decode-cmd"):
			method = "scan"
			req, err = scanForSession(env, args, capture)
		default:
			method = "code"
			req, err = manualCode(env, args, capture)
		}
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeout())
		defer cancel()
		if err := capture.Submit(ctx, env.Client, req); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return nil, env.sessionExpired(err)
			}
			return nil, &attendError{message: capture.Message(), err: err}
		}

		if !args.JSON && !args.Quiet {
			fmt.Fprintln(env.Stdout, SuccessStyle.Render(capture.Message()))
		}
		return attendResult{Method: method, Reference: capture.Reference(), Message: capture.Message()}, nil
	})
}

// attendError shows the capture's message and keeps the cause for exit codes.
type attendError struct {
	message string
	err     error
}

func (e *attendError) Error() string { return e.message }
func (e *attendError) Unwrap() error { return e.err }

func manualCode(env *Env, args Args, capture *core.Capture) (api.MarkAttendanceRequest, error) {
	code := args.Parser.Flag("code")
	if code == "" {
		code = args.Parser.Positional(0)
	}
	if code == "" {
		line, err := env.readLine("Attendance code: ")
		if err != nil {
			return api.MarkAttendanceRequest{}, fmt.Errorf("read code: %w", err)
		}
		code = line
	}
	capture.SetManualCode(code)
	return capture.SubmitManual()
}

func scanForSession(env *Env, args Args, capture *core.Capture) (api.MarkAttendanceRequest, error) {
	var scanner core.Scanner
	if cmdline := args.Parser.Flag("decode-cmd"); cmdline != "" {
		fields := strings.Fields(cmdline)
		fps := args.Parser.FlagIntOrDefault("fps", env.Config.Attendance.ScanFPS)
		scanner = core.NewPollScanner(core.ExecDecoder{Name: fields[0], Args: fields[1:]}, fps)
	} else if args.Parser.HasFlag("decode-cmd") {
		return api.MarkAttendanceRequest{}, ErrMissingArgument("decode-cmd", attendUsage)
	} else {
		lines := core.NewLineScanner(env.Stdin)
		defer lines.Close()
		scanner = lines
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !args.JSON && !args.Quiet {
		fmt.Fprintln(env.Stderr, DimStyle.Render("Scanning for an attendance QR code... (Ctrl+C to cancel)"))
	}
	code, err := core.ScanUntilSession(ctx, capture, scanner)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return api.MarkAttendanceRequest{}, errors.New("scan cancelled")
		}
		return api.MarkAttendanceRequest{}, fmt.Errorf("scan: %w", err)
	}
	env.Logger.Printf("attend: scanned session %s", code)
	return api.MarkAttendanceRequest{SessionCode: code}, nil
}
