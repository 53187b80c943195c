// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
)

// HandleAdmin runs `nexus admin [stats]`.
func HandleAdmin(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "stats":
	default:
		return &UsageError{Reason: "unknown admin command: " + args.Subcommand, Usage: "nexus admin stats"}
	}
	return OutputJSON(env.Stdout, args.JSON, "admin stats", func() (interface{}, error) {
		stats, err := fetch(env, session.RoleAdmin, env.Client.AdminStats)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Fprintln(env.Stdout, components.KeyValues(env.theme(), []components.Pair{
				{Label: "Students", Value: components.FormatCount(int64(stats.Students))},
				{Label: "Teachers", Value: components.FormatCount(int64(stats.Teachers))},
				{Label: "Admins", Value: components.FormatCount(int64(stats.Admins))},
				{Label: "Total users", Value: components.FormatCount(int64(stats.TotalUsers))},
			}))
		}
		return stats, nil
	})
}
