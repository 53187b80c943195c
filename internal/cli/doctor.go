// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nexus-campus/nexus-tui/internal/attendance"
	"github.com/nexus-campus/nexus-tui/internal/config"
	"github.com/nexus-campus/nexus-tui/internal/session"
)

// pingTimeout bounds the server reachability check.
const pingTimeout = 5 * time.Second

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckWarn
	CheckFail
)

// String returns the lower-case status name used in JSON output.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	default:
		return "fail"
	}
}

// Symbol returns the bracketed marker printed before a check.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return SuccessStyle.Render("[OK]")
	case CheckWarn:
		return WarningStyle.Render("[!!]")
	default:
		return ErrorStyle.Render("[FAIL]")
	}
}

// HealthCheck is one diagnostic result.
type HealthCheck struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"-"`
	State   string      `json:"status"`
	Message string      `json:"message"`
	// Fix is the command or instruction that resolves a failed check.
	Fix string `json:"fix,omitempty"`
}

// Render returns the check as printed by `nexus doctor`.
func (c *HealthCheck) Render() string {
	line := fmt.Sprintf("%s %s", c.Status.Symbol(), c.Message)
	if c.Status != CheckPass && c.Fix != "" {
		line += "\n" + DimStyle.Render("    -> "+c.Fix)
	}
	return line
}

// DoctorData is printed by `nexus doctor --json`.
type DoctorData struct {
	Checks  []*HealthCheck `json:"checks"`
	Passed  int            `json:"passed"`
	Warned  int            `json:"warned"`
	Failed  int            `json:"failed"`
	Healthy bool           `json:"healthy"`
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

// HandleDoctor checks the local setup and the server connection.
// It fails when any check fails; warnings do not.
func HandleDoctor(env *Env, args Args) error {
	checks := runChecks(env)
	data := DoctorData{Checks: checks}
	for _, c := range checks {
		c.State = c.Status.String()
		switch c.Status {
		case CheckPass:
			data.Passed++
		case CheckWarn:
			data.Warned++
		default:
			data.Failed++
		}
	}
	data.Healthy = data.Failed == 0

	var failure error
	if data.Failed > 0 {
		failure = fmt.Errorf("%d health check(s) failed", data.Failed)
	}

	if args.JSON {
		resp := NewJSONResponse("doctor", data)
		if failure != nil {
			msg := failure.Error()
			resp.Success = false
			resp.Error = &msg
		}
		if err := resp.Print(env.Stdout); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(env.Stdout, TitleStyle.Render("nexus doctor"))
	for _, c := range checks {
		fmt.Fprintln(env.Stdout, c.Render())
	}
	fmt.Fprintln(env.Stdout, RenderSeparator())
	summary := []string{fmt.Sprintf("%d passed", data.Passed)}
	if data.Warned > 0 {
		summary = append(summary, WarningStyle.Render(fmt.Sprintf("%d warning", data.Warned)))
	}
	if data.Failed > 0 {
		summary = append(summary, ErrorStyle.Render(fmt.Sprintf("%d failed", data.Failed)))
	}
	fmt.Fprintln(env.Stdout, strings.Join(summary, ", "))
	return failure
}

func runChecks(env *Env) []*HealthCheck {
	return []*HealthCheck{
		checkConfig(env),
		checkHomeWritable(),
		checkChatStorage(env),
		checkScanURL(env),
		checkServer(env),
		checkSession(env),
	}
}

// =============================================================================
// CHECKS
// =============================================================================

func checkConfig(env *Env) *HealthCheck {
	c := &HealthCheck{Name: "config"}
	path, _ := env.configFile()
	if _, err := env.loadConfig(); err != nil {
		c.Status = CheckFail
		c.Message = "Config is invalid: " + err.Error()
		c.Fix = "Edit " + path
		return c
	}
	c.Message = "Config is valid"
	if _, err := os.Stat(path); err != nil {
		c.Message += " (defaults, no config file)"
	}
	return c
}

func checkHomeWritable() *HealthCheck {
	c := &HealthCheck{Name: "home"}
	dir, err := config.ConfigDir()
	if err == nil {
		err = config.EnsureConfigDir()
	}
	if err == nil {
		var f *os.File
		if f, err = os.CreateTemp(dir, ".doctor-*"); err == nil {
			f.Close()
			os.Remove(f.Name())
		}
	}
	if err != nil {
		c.Status = CheckFail
		c.Message = "Cannot write to " + dir + ": " + err.Error()
		c.Fix = "Check permissions, or set NEXUS_HOME"
		return c
	}
	c.Message = "Home directory is writable: " + dir
	return c
}

func checkChatStorage(env *Env) *HealthCheck {
	c := &HealthCheck{Name: "chat_storage"}
	backend := env.Config.Chat.Backend
	if backend == "" {
		backend = config.BackendFile
	}
	store, err := env.Store()
	if err != nil {
		c.Status = CheckFail
		c.Message = fmt.Sprintf("Chat storage (%s) failed to open: %v", backend, err)
		c.Fix = "nexus config set chat.backend file"
		return c
	}
	path, _ := env.Config.ChatStorePath()
	c.Message = fmt.Sprintf("Chat storage (%s) holds %d chat(s) at %s", backend, store.Len(), filepath.Clean(path))
	return c
}

func checkScanURL(env *Env) *HealthCheck {
	c := &HealthCheck{Name: "scan_url"}
	if _, err := attendance.ScanURL(env.Config.Attendance.ScanURLBase, "check"); err != nil {
		c.Status = CheckFail
		c.Message = "Attendance scan URL is unusable: " + err.Error()
		c.Fix = "nexus config set attendance.scan_url_base http://<web-host>/student/attendance"
		return c
	}
	c.Message = "Attendance QR codes link to " + env.Config.Attendance.ScanURLBase
	return c
}

func checkServer(env *Env) *HealthCheck {
	c := &HealthCheck{Name: "server"}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := env.Client.Ping(ctx); err != nil {
		c.Status = CheckFail
		c.Message = "Cannot reach NEXUS server at " + env.Client.BaseURL()
		c.Fix = "Start the server, or run: nexus config set api.base_url <url>"
		return c
	}
	c.Message = "NEXUS server is reachable at " + env.Client.BaseURL()
	return c
}

func checkSession(env *Env) *HealthCheck {
	c := &HealthCheck{Name: "session"}
	data := whoami(env.Session, time.Now())
	switch {
	case !data.LoggedIn:
		c.Status = CheckWarn
		c.Message = "Not logged in"
		c.Fix = "nexus login"
	case data.Expired:
		c.Status = CheckWarn
		c.Message = "Signed in as " + displayRole(session.ParseRole(data.Role)) + ", but the token has expired"
		c.Fix = "nexus login"
	default:
		c.Message = "Signed in as " + displayRole(session.ParseRole(data.Role))
		if data.ExpiresAt != nil {
			c.Message += ", token expires in " + session.FormatDuration(time.Until(*data.ExpiresAt))
		}
	}
	return c
}
