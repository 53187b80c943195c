// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdChat
	CmdAsk
	CmdAttend
	CmdAttendance
	CmdNotes
	CmdAssignments
	CmdTeacher
	CmdAdmin
	CmdConfig
	CmdDoctor
	CmdSetup
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdLogout:
		return "logout"
	case CmdWhoami:
		return "whoami"
	case CmdChat:
		return "chat"
	case CmdAsk:
		return "ask"
	case CmdAttend:
		return "attend"
	case CmdAttendance:
		return "attendance"
	case CmdNotes:
		return "notes"
	case CmdAssignments:
		return "assignments"
	case CmdTeacher:
		return "teacher"
	case CmdAdmin:
		return "admin"
	case CmdConfig:
		return "config"
	case CmdDoctor:
		return "doctor"
	case CmdSetup:
		return "setup"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	Quiet      bool
	JSON       bool // Output in JSON format
	APIURL     string
	ConfigFile string // --config, replaces ~/.nexus/config.toml

	// Command-specific
	Subcommand string
	Query      string
	ConfigKey  string
	ConfigVal  string

	// Unknown is the command word when it matched no command
	Unknown string

	// Raw args after the command word
	Raw []string

	// Parser holds the flags of Raw
	Parser *ArgParser
}

const usageText = `nexus - terminal client for the NEXUS campus platform

Usage:
  nexus                          Start the TUI (default)
  nexus tui [--decode-cmd CMD]   Start the TUI, scanning QR codes with CMD
  nexus login [mobile]           Sign in (password is prompted)
  nexus logout                   Sign out
  nexus whoami                   Show the signed-in role and token expiry

Student:
  nexus attend --code 123456     Mark attendance with the digit code
  nexus attend --scan            Read scanned codes from stdin (HID scanner)
    --decode-cmd "zbarcam --raw" Read codes from a decoder command
    --fps N                      Poll rate for --decode-cmd (default: config)
  nexus attendance               Present days per subject
  nexus notes [--subject S]      Uploaded notes
  nexus assignments              Assignments with status and score
  nexus chat                     Interactive assistant chat
  nexus chat list                List saved conversations
  nexus chat new                 Start a new conversation and open it
  nexus chat show <id>           Print a conversation
  nexus chat rename <id> <title> Rename a conversation
  nexus chat delete <id> --confirm
                                 Delete a conversation
  nexus ask "question"           Ask once and store the exchange
    --continue                   Ask in the current conversation
    --raw                        Print the reply without rendering

Teacher:
  nexus teacher subjects         Subjects you teach
  nexus teacher years <subject>  Years a subject is taught to
  nexus teacher start <subject> [year]
                                 Start an attendance session and show its QR
    --png FILE                   Also save the QR code as a PNG
    --size N                     PNG size in pixels (default: 256)
    --watch                      Keep counting down until the session expires

Admin:
  nexus admin stats              User counts by role

Configuration:
  nexus config show              Show current configuration
  nexus config get <key>         Show one value (e.g. api.base_url)
  nexus config set <key> <value> Change and save a value
  nexus config path              Show the config file location
  nexus setup [--quick]          Choose the server, storage and theme
  nexus doctor                   Check config, storage and the server connection
  nexus version                  Show version information

Global Flags:
  --api URL       Override api.base_url for this run
  --config PATH   Read and write PATH instead of ~/.nexus/config.toml
  --json          Output in JSON format
  -q, --quiet     Minimal output
  -v, --verbose   Log API requests to stderr

Files live under ~/.nexus (NEXUS_HOME overrides it).

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "nexus version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		args.Parser = NewArgParser(nil)
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]
	args.Parser = NewArgParser(args.Raw)
	args.Subcommand = args.Parser.Subcommand()

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "login", "signin":
		return CmdLogin, args
	case "logout", "signout":
		return CmdLogout, args
	case "whoami", "me":
		return CmdWhoami, args
	case "chat":
		return CmdChat, args
	case "ask":
		args.Query = JoinPositionalArgs(args.Parser, 0)
		return CmdAsk, args
	case "attend", "mark":
		return CmdAttend, args
	case "attendance", "summary":
		return CmdAttendance, args
	case "notes":
		return CmdNotes, args
	case "assignments":
		return CmdAssignments, args
	case "teacher":
		return CmdTeacher, args
	case "admin":
		return CmdAdmin, args
	case "config":
		args.ConfigKey = args.Parser.Positional(1)
		args.ConfigVal = JoinPositionalArgs(args.Parser, 2)
		return CmdConfig, args
	case "doctor", "diag":
		return CmdDoctor, args
	case "setup", "init":
		return CmdSetup, args
	case "version", "--version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		args.Unknown = remaining[0]
		return CmdHelp, args
	}
}

// parseGlobalFlags pulls global flags from anywhere in argv and returns the
// rest in order.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	remaining := make([]string, 0, len(argv))

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-h" || arg == "--help":
			return []string{"help"}, args
		case arg == "--api" && i+1 < len(argv):
			args.APIURL = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--api="):
			args.APIURL = strings.TrimPrefix(arg, "--api=")
		case arg == "--config" && i+1 < len(argv):
			args.ConfigFile = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			args.ConfigFile = strings.TrimPrefix(arg, "--config=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}
