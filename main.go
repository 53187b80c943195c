// nexus - terminal client for the NEXUS campus platform.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/cli"
	"github.com/nexus-campus/nexus-tui/internal/config"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/ui/app"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// sessionDebounce coalesces the several events one atomic write produces.
const sessionDebounce = 100 * time.Millisecond

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	env, err := cli.NewEnv(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err, false)
		os.Exit(cli.GetExitCode(err))
	}
	defer env.Close()

	if cmd == cli.CmdTUI {
		if err := runTUI(env, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error running nexus: %v\n", err)
			env.Close()
			os.Exit(1)
		}
		return
	}

	if err := cli.Run(cmd, args, env); err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		env.Close()
		os.Exit(cli.GetExitCode(err))
	}
}

// runTUI starts the Bubble Tea program. The standard logger goes to
// nexus.log in the config dir since the terminal belongs to the UI.
func runTUI(env *cli.Env, args cli.Args) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(filepath.Join(dir, "nexus.log"), "nexus")
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := log.Default()
	env.Logger = logger
	env.Client.WithLogger(logger)

	store, err := env.Store()
	if err != nil {
		return err
	}

	// Session changes made by another nexus process reach the UI through
	// the file watcher.
	events := make(chan session.State, 8)
	env.Session.OnChange(func(st session.State) {
		select {
		case events <- st:
		default:
		}
	})
	if w, err := session.NewWatcher(env.Session, sessionDebounce); err != nil {
		logger.Printf("session: watcher unavailable: %v", err)
	} else if err := w.Watch(); err != nil {
		logger.Printf("session: watch failed: %v", err)
		w.Close()
	} else {
		defer w.Close()
	}

	var scanner attendance.Scanner
	cmdline := args.Parser.FlagOrDefault("decode-cmd", env.Config.Attendance.DecodeCmd)
	if fields := strings.Fields(cmdline); len(fields) > 0 {
		scanner = attendance.NewPollScanner(attendance.ExecDecoder{Name: fields[0], Args: fields[1:]}, env.Config.Attendance.ScanFPS)
	}

	m := app.New(app.Options{
		Config:        env.Config,
		Session:       env.Session,
		Backend:       env.Client,
		Store:         store,
		Theme:         styles.NewTheme(env.Config.UI.Theme),
		Scanner:       scanner,
		SessionEvents: events,
		Logger:        logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
