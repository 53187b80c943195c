// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/config"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// =============================================================================
// SETUP WIZARD
// =============================================================================

// HandleSetup asks for the server address, storage backend and theme,
// checks the server answers, and saves the config. --quick keeps every
// current value and only checks and saves.
func HandleSetup(env *Env, args Args) error {
	if args.JSON {
		return &UsageError{Reason: "setup is interactive; use nexus config set", Usage: "nexus setup"}
	}
	cfg, err := env.loadConfig()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: %v (starting from defaults)\n", err)
		cfg = config.Default()
	}

	out := env.Stdout
	fmt.Fprintln(out, TitleStyle.Render("nexus setup"))

	if !args.Parser.BoolFlag("quick") {
		if !env.Interactive {
			return &UsageError{Reason: "setup needs a terminal; pass --quick to save the current values", Usage: "nexus setup [--quick]"}
		}
		cfg.API.BaseURL = env.promptDefault("NEXUS server URL", cfg.API.BaseURL)
		cfg.Attendance.ScanURLBase = env.promptDefault("Web attendance page (for QR codes)", cfg.Attendance.ScanURLBase)

		backends := []string{config.BackendFile, config.BackendSQLite}
		cfg.Chat.Backend = backends[env.promptChoice("Chat storage", backends, indexOf(backends, cfg.Chat.Backend))]

		themes := []string{styles.ModeAuto, styles.ModeDark, styles.ModeLight}
		cfg.UI.Theme = themes[env.promptChoice("Theme", themes, indexOf(themes, cfg.UI.Theme))]
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg.API.BaseURL).WithLogger(env.Logger)
	err = withSpinner(env.Stderr, "Contacting "+cfg.API.BaseURL, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		return client.Ping(ctx)
	})
	if err != nil {
		fmt.Fprintln(out, WarningStyle.Render("Server did not answer; saving anyway"))
	}

	if err := env.saveConfig(cfg); err != nil {
		return err
	}
	path, _ := env.configFile()
	fmt.Fprintln(out, SuccessStyle.Render("Setup complete"))
	fmt.Fprintln(out, RenderField("Config", path))
	fmt.Fprintln(out, DimStyle.Render("Run 'nexus login' to sign in"))
	return nil
}

// =============================================================================
// PROMPT HELPERS
// =============================================================================

// promptDefault reads a value, keeping def on an empty answer or a read
// error.
func (e *Env) promptDefault(prompt, def string) string {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", prompt, def)
	} else {
		prompt += ": "
	}
	line, err := e.readLine(prompt)
	if line = strings.TrimSpace(line); err != nil || line == "" {
		return def
	}
	return line
}

// promptChoice picks one of options by name or 1-based number. Anything
// else keeps def.
func (e *Env) promptChoice(prompt string, options []string, def int) int {
	if def < 0 || def >= len(options) {
		def = 0
	}
	answer := e.promptDefault(fmt.Sprintf("%s (%s)", prompt, strings.Join(options, "/")), options[def])
	for i, opt := range options {
		if strings.EqualFold(answer, opt) || answer == strconv.Itoa(i+1) {
			return i
		}
	}
	return def
}

func indexOf(options []string, v string) int {
	for i, opt := range options {
		if strings.EqualFold(opt, v) {
			return i
		}
	}
	return 0
}

// withSpinner runs fn while animating msg on w.
func withSpinner(w io.Writer, msg string, fn func() error) error {
	errc := make(chan error, 1)
	go func() { errc <- fn() }()

	frames := []rune{'|', '/', '-', '\\'}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case err := <-errc:
			status := SuccessStyle.Render("ok")
			if err != nil {
				status = ErrorStyle.Render("failed")
			}
			fmt.Fprintf(w, "\r  %s... %s\n", msg, status)
			return err
		case <-ticker.C:
			fmt.Fprintf(w, "\r  %s... %c", msg, frames[i%len(frames)])
		}
	}
}
