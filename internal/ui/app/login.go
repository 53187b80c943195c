// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexus-campus/nexus-tui/internal/api"
	"github.com/nexus-campus/nexus-tui/internal/router"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// Login page texts.
const (
	LoginMissingText     = "Enter mobile and password"
	LoginFailedText      = "Invalid credentials"
	LoginUnreachableText = "Cannot reach NEXUS server"
)

type loginForm struct {
	mobile     textinput.Model
	password   textinput.Model
	focused    int // 0 mobile, 1 password
	submitting bool

	next   key.Binding
	submit key.Binding
}

func newLoginForm(theme *styles.Theme) loginForm {
	mobile := textinput.New()
	mobile.Placeholder = "Mobile"
	mobile.Prompt = "Mobile    "
	mobile.PromptStyle = theme.Label
	mobile.CharLimit = 15
	mobile.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = "Password  "
	password.PromptStyle = theme.Label
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{
		mobile:   mobile,
		password: password,
		next:     key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "login")),
	}
}

// reset clears the password and puts the cursor back on the first field.
func (f *loginForm) reset() {
	f.password.Reset()
	f.submitting = false
	f.focus(0)
}

func (f *loginForm) focus(i int) {
	f.focused = i
	if i == 0 {
		f.mobile.Focus()
		f.password.Blur()
		return
	}
	f.mobile.Blur()
	f.password.Focus()
}

func (f loginForm) request() api.LoginRequest {
	return api.LoginRequest{
		Mobile:   strings.TrimSpace(f.mobile.Value()),
		Password: f.password.Value(),
	}
}

func (f loginForm) keyHelp() []key.Binding {
	return []key.Binding{f.next, f.submit}
}

// =============================================================================
// UPDATE
// =============================================================================

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	if m.login.submitting {
		return nil
	}
	switch {
	case key.Matches(msg, m.login.next):
		m.login.focus(1 - m.login.focused)
		return nil
	case key.Matches(msg, m.login.submit):
		if m.login.focused == 0 && m.login.password.Value() == "" {
			m.login.focus(1)
			return nil
		}
		return m.submitLogin()
	case msg.Type == tea.KeyEsc:
		return m.quit()
	}

	var cmd tea.Cmd
	if m.login.focused == 0 {
		m.login.mobile, cmd = m.login.mobile.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return cmd
}

func (m *Model) submitLogin() tea.Cmd {
	req := m.login.request()
	if req.Mobile == "" || req.Password == "" {
		m.setStatus(LoginMissingText, true)
		return nil
	}
	if err := api.Validate(req); err != nil {
		var ve *api.ValidationError
		if errors.As(err, &ve) {
			if reason, ok := ve.Fields["mobile"]; ok {
				m.setStatus("Mobile "+reason, true)
				return nil
			}
		}
		m.setStatus(LoginMissingText, true)
		return nil
	}

	m.login.submitting = true
	m.setStatus("Signing in...", false)
	return tea.Batch(loginCmd(m.backend, req), m.spinner.Tick)
}

func (m *Model) handleLoginResult(msg loginResultMsg) tea.Cmd {
	m.login.submitting = false
	if msg.err != nil {
		m.login.password.Reset()
		m.logger.Printf("login: %v", msg.err)
		if errors.Is(msg.err, api.ErrTransport) {
			m.setStatus(LoginUnreachableText, true)
		} else {
			m.setStatus(LoginFailedText, true)
		}
		return nil
	}

	if err := m.sess.Login(msg.resp.AccessToken, session.ParseRole(msg.resp.Role), msg.mobile); err != nil {
		if !m.sess.Authenticated() {
			m.setStatus(LoginFailedText, true)
			return nil
		}
		// Signed in for this run; the session file could not be written.
		m.logger.Printf("session: %v", err)
	}
	if m.sess.Role() == session.RoleNone {
		m.signOut(router.UnauthorizedText)
		return nil
	}
	m.login.password.Reset()
	return m.navigate(router.Home(m.sess.Role()))
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) loginView() string {
	t := m.theme
	title := t.Title.Render("NEXUS")
	sub := t.Subtitle.Render("Student Login")

	button := t.Button.Render("Login")
	if m.login.submitting {
		button = t.Button.Render(m.spinner.View() + " Signing in...")
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		title,
		sub,
		"",
		m.login.mobile.View(),
		m.login.password.View(),
		"",
		button,
	)
	card := t.Card.Render(form)
	return lipgloss.Place(max(m.width, 40), m.bodyHeight(), lipgloss.Center, lipgloss.Center, card)
}
