// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// =============================================================================
// STUDENT COMMANDS
// =============================================================================

// fetch runs one student request with the configured timeout, turning a
// 401 into a logout.
func fetch[T any](env *Env, role session.Role, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := env.requireRole(role); err != nil {
		return zero, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeout())
	defer cancel()
	v, err := call(ctx)
	if err != nil {
		return zero, env.sessionExpired(err)
	}
	return v, nil
}

func (e *Env) theme() *styles.Theme {
	return styles.NewTheme(e.Config.UI.Theme)
}

// HandleAttendanceSummary prints present days per subject.
func HandleAttendanceSummary(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "attendance", func() (interface{}, error) {
		rows, err := fetch(env, session.RoleStudent, env.Client.AttendanceSummary)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.Subject, strconv.Itoa(r.PresentDays)})
			}
			fmt.Fprintln(env.Stdout, components.List(env.theme(), []components.Column{
				{Title: "Subject", Width: 28},
				{Title: "Present", Width: 8},
			}, table, "No attendance yet"))
		}
		return rows, nil
	})
}

// HandleNotes lists uploaded notes.
func HandleNotes(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "notes", func() (interface{}, error) {
		notes, err := fetch(env, session.RoleStudent, env.Client.StudentNotes)
		if err != nil {
			return nil, err
		}
		if subject := args.Parser.Flag("subject"); subject != "" {
			notes = filterNotes(notes, subject)
		}
		if !args.JSON {
			table := make([][]string, 0, len(notes))
			for _, n := range notes {
				table = append(table, []string{n.Subject, n.Filename, n.UploadedAt})
			}
			fmt.Fprintln(env.Stdout, components.List(env.theme(), []components.Column{
				{Title: "Subject", Width: 20},
				{Title: "File", Width: 32},
				{Title: "Uploaded", Width: 20},
			}, table, "No notes uploaded"))
		}
		return notes, nil
	})
}

func filterNotes(notes []api.Note, subject string) []api.Note {
	out := make([]api.Note, 0, len(notes))
	for _, n := range notes {
		if n.Subject == subject {
			out = append(out, n)
		}
	}
	return out
}

// HandleAssignments lists assignments with their status and score.
func HandleAssignments(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "assignments", func() (interface{}, error) {
		list, err := fetch(env, session.RoleStudent, env.Client.StudentAssignments)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			table := make([][]string, 0, len(list))
			for _, a := range list {
				table = append(table, []string{a.Subject, a.Title, a.DueDate, a.Status, components.FormatScore(a.Score)})
			}
			fmt.Fprintln(env.Stdout, components.List(env.theme(), []components.Column{
				{Title: "Subject", Width: 16},
				{Title: "Title", Width: 28},
				{Title: "Due", Width: 12},
				{Title: "Status", Width: 10},
				{Title: "Score", Width: 6},
			}, table, "No assignments"))
		}
		return list, nil
	})
}
