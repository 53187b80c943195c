// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/session"
)

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin signs in with a mobile number and password. The mobile may be
// given as an argument; the password is always prompted.
func HandleLogin(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "login", func() (interface{}, error) {
		mobile := args.Parser.FlagOrDefault("mobile", args.Parser.Positional(0))
		if mobile == "" {
			line, err := env.readLine("Mobile: ")
			if err != nil {
				return nil, fmt.Errorf("read mobile: %w", err)
			}
			mobile = line
		}
		password, err := env.readPassword("Password: ")
		if err != nil {
			return nil, err
		}

		req := api.LoginRequest{Mobile: strings.TrimSpace(mobile), Password: password}
		if err := api.Validate(req); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeout())
		defer cancel()
		resp, err := env.Client.Login(ctx, req)
		if err != nil {
			if errors.Is(err, api.ErrTransport) {
				return nil, fmt.Errorf("cannot reach NEXUS server at %s: %w", env.Client.BaseURL(), err)
			}
			return nil, fmt.Errorf("invalid credentials: %w", err)
		}

		if err := env.Session.Login(resp.AccessToken, session.ParseRole(resp.Role), req.Mobile); err != nil {
			if !env.Session.Authenticated() {
				return nil, err
			}
			fmt.Fprintf(env.Stderr, "Warning: %v\n", err)
		}

		data := whoami(env.Session, time.Now())
		if !args.JSON && !args.Quiet {
			fmt.Fprintln(env.Stdout, SuccessStyle.Render("Logged in as "+displayRole(env.Session.Role())))
		}
		return data, nil
	})
}

// HandleLogout clears the saved session. A running TUI notices and returns
// to its login page.
func HandleLogout(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "logout", func() (interface{}, error) {
		was := env.Session.Authenticated()
		if err := env.Session.Logout(); err != nil {
			return nil, err
		}
		if !args.JSON && !args.Quiet {
			if was {
				fmt.Fprintln(env.Stdout, "Logged out")
			} else {
				fmt.Fprintln(env.Stdout, DimStyle.Render("Not logged in"))
			}
		}
		return map[string]bool{"was_logged_in": was}, nil
	})
}

// =============================================================================
// WHOAMI
// =============================================================================

// HandleWhoami prints the role, mobile and token expiry of the session.
func HandleWhoami(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "whoami", func() (interface{}, error) {
		now := time.Now()
		data := whoami(env.Session, now)
		if args.JSON {
			return data, nil
		}
		if !data.LoggedIn {
			return nil, ErrNotLoggedIn
		}

		fmt.Fprintln(env.Stdout, RenderField("Role", displayRole(env.Session.Role())))
		if data.Mobile != "" {
			fmt.Fprintln(env.Stdout, RenderField("Mobile", data.Mobile))
		}
		if data.ExpiresAt != nil {
			left := data.ExpiresAt.Sub(now)
			status := "expires in " + session.FormatDuration(left)
			if data.Expired {
				status = ErrorStyle.Render("expired")
			}
			fmt.Fprintln(env.Stdout, RenderField("Token", status))
		}
		return data, nil
	})
}

func whoami(sess *session.Session, now time.Time) WhoamiData {
	st := sess.State()
	data := WhoamiData{LoggedIn: st.Authenticated()}
	if !data.LoggedIn {
		return data
	}
	data.Role = st.Role.String()
	data.Mobile = st.Mobile
	if claims, err := sess.Claims(); err == nil {
		data.Subject = claims.Subject
		if exp := claims.Expiry(); !exp.IsZero() {
			data.ExpiresAt = &exp
			data.Expired = claims.Expired(now)
		}
	}
	return data
}

func displayRole(r session.Role) string {
	return cases.Title(language.English).String(r.String())
}
