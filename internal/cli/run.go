// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"
)

// Run executes a non-TUI command against env.
func Run(cmd Command, args Args, env *Env) error {
	switch cmd {
	case CmdLogin:
		return HandleLogin(env, args)
	case CmdLogout:
		return HandleLogout(env, args)
	case CmdWhoami:
		return HandleWhoami(env, args)
	case CmdChat:
		return HandleChat(env, args)
	case CmdAsk:
		return HandleAsk(env, args)
	case CmdAttend:
		return HandleAttend(env, args)
	case CmdAttendance:
		return HandleAttendanceSummary(env, args)
	case CmdNotes:
		return HandleNotes(env, args)
	case CmdAssignments:
		return HandleAssignments(env, args)
	case CmdTeacher:
		return HandleTeacher(env, args)
	case CmdAdmin:
		return HandleAdmin(env, args)
	case CmdConfig:
		return HandleConfig(env, args)
	case CmdDoctor:
		return HandleDoctor(env, args)
	case CmdSetup:
		return HandleSetup(env, args)
	case CmdVersion:
		return HandleVersion(env, args)
	case CmdTUI:
		return fmt.Errorf("the TUI is started by main, not Run")
	default:
		return HandleHelp(env, args)
	}
}

// HandleVersion prints build information.
func HandleVersion(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print(env.Stdout)
	}
	PrintVersion(env.Stdout)
	return nil
}

// HandleHelp prints usage. An unknown command word is an error, with a
// suggestion when it looks like a typo.
func HandleHelp(env *Env, args Args) error {
	if args.Unknown == "" {
		PrintUsage(env.Stdout)
		return nil
	}
	reason := "unknown command: " + args.Unknown
	if s := SuggestCommand(args.Unknown); s != "" {
		reason += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return &UsageError{Reason: reason, Usage: "nexus help"}
}
