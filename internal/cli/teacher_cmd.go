// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/nexus-campus/nexus-tui/internal/api"
	core "github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/session"
)

const (
	teacherUsage = "nexus teacher [subjects | years <subject> | start <subject> [year]]"
	startUsage   = "nexus teacher start <subject> [year] [--png FILE] [--size N] [--watch]"
)

// teacherYears is offered when the server lists no years for a subject.
var teacherYears = []int{1, 2, 3, 4}

// HandleTeacher runs `nexus teacher` subcommands.
func HandleTeacher(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "subjects":
		return teacherSubjects(env, args)
	case "years":
		return teacherSubjectYears(env, args)
	case "start":
		return teacherStart(env, args)
	default:
		return &UsageError{Reason: "unknown teacher command: " + args.Subcommand, Usage: teacherUsage}
	}
}

func teacherSubjects(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "teacher subjects", func() (interface{}, error) {
		subjects, err := fetch(env, session.RoleTeacher, env.Client.TeacherSubjects)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			if len(subjects) == 0 {
				fmt.Fprintln(env.Stdout, DimStyle.Render("No subjects assigned"))
			}
			for _, s := range subjects {
				fmt.Fprintln(env.Stdout, s)
			}
		}
		return subjects, nil
	})
}

// yearsFor returns the years offered for subject.
func yearsFor(env *Env, subject string) ([]int, error) {
	years, err := fetch(env, session.RoleTeacher, func(ctx context.Context) ([]int, error) {
		return env.Client.SubjectYears(ctx, subject)
	})
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return teacherYears, nil
	}
	return years, nil
}

func teacherSubjectYears(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "teacher years", func() (interface{}, error) {
		subject := JoinPositionalArgs(args.Parser, 1)
		if subject == "" {
			return nil, ErrMissingArgument("subject", "nexus teacher years <subject>")
		}
		years, err := yearsFor(env, subject)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			for _, y := range years {
				fmt.Fprintf(env.Stdout, "%d Year\n", y)
			}
		}
		return years, nil
	})
}

func teacherStart(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "teacher start", func() (interface{}, error) {
		req, err := startRequest(env, args)
		if err != nil {
			return nil, err
		}

		started, err := fetch(env, session.RoleTeacher, func(ctx context.Context) (*api.AttendanceSession, error) {
			return env.Client.StartAttendance(ctx, req)
		})
		if err != nil {
			return nil, err
		}

		qr, err := core.NewSessionQR(env.Config.Attendance.ScanURLBase, started.SessionCode, started.DigitCode)
		if err != nil {
			return nil, err
		}
		data := StartedSessionData{
			SessionID:   started.SessionID,
			SessionCode: started.SessionCode,
			DigitCode:   started.DigitCode,
			ExpiresAt:   started.ExpiresAt,
			ScanURL:     qr.URL,
		}
		if path := args.Parser.Flag("png"); path != "" {
			if err := qr.WritePNG(path, args.Parser.FlagIntOrDefault("size", 256)); err != nil {
				return nil, fmt.Errorf("write QR image: %w", err)
			}
			data.PNG = path
		}

		if !args.JSON {
			printStarted(env, args, started, qr, data.PNG)
		}
		return data, nil
	})
}

// startRequest builds the request from `start <subject...> [year]`. A
// trailing number is the year; without one the subject's only year is
// used.
func startRequest(env *Env, args Args) (api.StartAttendanceRequest, error) {
	words := args.Parser.PositionalFrom(1)
	var req api.StartAttendanceRequest

	if n := len(words); n > 1 {
		if y, err := strconv.Atoi(words[n-1]); err == nil {
			req.Year = y
			words = words[:n-1]
		}
	}
	if y := args.Parser.Flag("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return req, &UsageError{Reason: "year must be a number", Usage: startUsage}
		}
		req.Year = v
	}
	req.Subject = strings.TrimSpace(strings.Join(words, " "))
	if req.Subject == "" {
		return req, ErrMissingArgument("subject", startUsage)
	}

	if req.Year == 0 {
		years, err := yearsFor(env, req.Subject)
		if err != nil {
			return req, err
		}
		if len(years) != 1 {
			return req, &UsageError{Reason: "year is required, one of " + joinYears(years), Usage: startUsage}
		}
		req.Year = years[0]
	}

	if err := api.Validate(req); err != nil {
		return req, err
	}
	return req, nil
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}

func printStarted(env *Env, args Args, started *api.AttendanceSession, qr *core.SessionQR, png string) {
	out := env.Stdout
	fmt.Fprintln(out, SuccessStyle.Render("Attendance Started"))
	if !args.Quiet {
		fmt.Fprintln(out, qr.Terminal(!env.theme().IsDark))
	}
	fmt.Fprintln(out, RenderField("Code", CodeStyle.Render(started.DigitCode)))
	fmt.Fprintln(out, RenderField("Scan URL", qr.URL))
	if png != "" {
		fmt.Fprintln(out, RenderField("QR image", png))
	}

	remaining := started.Remaining(time.Now())
	if remaining <= 0 {
		fmt.Fprintln(out, WarningStyle.Render("Attendance session expired"))
		return
	}
	if !args.Parser.BoolFlag("watch") || !IsStdoutTTY() {
		fmt.Fprintln(out, RenderField("Expires in", api.FormatCountdown(remaining)))
		return
	}
	watchCountdown(env, started)
}

// watchCountdown redraws the expiry line every second until the session
// expires or the user interrupts.
func watchCountdown(env *Env, started *api.AttendanceSession) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		remaining := started.Remaining(time.Now())
		if remaining <= 0 {
			fmt.Fprintf(env.Stdout, "\r%s\033[K\n", WarningStyle.Render("Attendance session expired"))
			return
		}
		fmt.Fprintf(env.Stdout, "\r%s\033[K", RenderField("Expires in", api.FormatCountdown(remaining)))
		select {
		case <-ctx.Done():
			fmt.Fprintln(env.Stdout)
			return
		case <-ticker.C:
		}
	}
}
