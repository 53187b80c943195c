// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the nexus command line: argument parsing, the
// non-interactive commands and their text and JSON output.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if cmd == cli.CmdTUI {
//	    // start the Bubble Tea program
//	}
//	env, err := cli.NewEnv(args)
//	...
//	if err := cli.Run(cmd, args, env); err != nil {
//	    cli.DisplayError(os.Stderr, err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands
//
// Every role:
//   - login, logout, whoami
//   - config, setup, doctor, version
//
// Students:
//   - attend: mark attendance by code or scanned QR
//   - attendance, notes, assignments
//   - chat, ask: the assistant, stored in the same chats as the TUI
//
// Teachers:
//   - teacher subjects | years | start
//
// Admins:
//   - admin stats
//
// All commands support --json, printing a JSONResponse envelope.
package cli
