// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nexus-campus/nexus-tui/internal/api"
	core "github.com/nexus-campus/nexus-tui/internal/attendance"
	chatsvc "github.com/nexus-campus/nexus-tui/internal/chat"
	"github.com/nexus-campus/nexus-tui/internal/config"
	"github.com/nexus-campus/nexus-tui/internal/router"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/storage"
	attendui "github.com/nexus-campus/nexus-tui/internal/ui/attendance"
	chatui "github.com/nexus-campus/nexus-tui/internal/ui/chat"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// SessionExpiredText is shown after a 401 signs the user out.
const SessionExpiredText = "Session expired. Please sign in again."

// Backend is the NEXUS API as the TUI uses it. *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	SendChatMessage(ctx context.Context, message string) (*api.ChatResponse, error)
	MarkAttendance(ctx context.Context, req api.MarkAttendanceRequest) error
	AttendanceSummary(ctx context.Context) ([]api.AttendanceSummary, error)
	StudentNotes(ctx context.Context) ([]api.Note, error)
	StudentAssignments(ctx context.Context) ([]api.Assignment, error)
	StartAttendance(ctx context.Context, req api.StartAttendanceRequest) (*api.AttendanceSession, error)
	TeacherSubjects(ctx context.Context) ([]string, error)
	SubjectYears(ctx context.Context, subject string) ([]int, error)
	AdminStats(ctx context.Context) (*api.AdminStats, error)
}

// Options configures the app.
type Options struct {
	Config  *config.Config
	Session *session.Session
	Backend Backend
	Store   *storage.ChatStore
	Theme   *styles.Theme

	// Scanner feeds the attendance modal; nil means typed input only.
	Scanner core.Scanner

	// SessionEvents delivers session changes seen by the file watcher.
	SessionEvents <-chan session.State

	Logger *log.Logger
}

// =============================================================================
// KEY MAP
// =============================================================================

type keyMap struct {
	Quit    key.Binding
	Logout  key.Binding
	Back    key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "logout")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model.
type Model struct {
	cfg     *config.Config
	sess    *session.Session
	backend Backend
	store   *storage.ChatStore
	theme   *styles.Theme
	scanner core.Scanner
	events  <-chan session.State
	logger  *log.Logger
	keys    keyMap

	width  int
	height int

	page    router.Page
	status  string
	isError bool
	loading bool
	spinner spinner.Model

	login     loginForm
	chat      chatui.Model
	modal     attendui.Model
	modalOpen bool

	student studentData
	teacher teacherData
	admin   adminData
}

// New creates the app on the session's home page.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	chatPage := chatui.New(chatui.Options{
		Store:          opts.Store,
		Exchange:       chatsvc.NewExchange(opts.Backend).WithLogger(logger),
		Theme:          theme,
		Markdown:       components.NewMarkdown(theme.IsDark, cfg.UI.Markdown),
		RevealChunk:    cfg.Chat.RevealChunk,
		RevealInterval: cfg.RevealInterval(),
		TitleWidth:     cfg.Chat.TitleMax,
	})

	m := Model{
		cfg:     cfg,
		sess:    opts.Session,
		backend: opts.Backend,
		store:   opts.Store,
		theme:   theme,
		scanner: opts.Scanner,
		events:  opts.SessionEvents,
		logger:  logger,
		keys:    defaultKeyMap(),
		spinner: sp,
		login:   newLoginForm(theme),
		chat:    chatPage,
	}
	m.page = router.Resolve(router.Home(m.sess.Role()), m.sess.Role()).Page
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSession(m.events), m.enter(m.page), m.chat.Init())
}

// Page returns the page on screen.
func (m Model) Page() router.Page {
	return m.page
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// =============================================================================
// NAVIGATION
// =============================================================================

// navigate resolves page for the current role and moves there.
func (m *Model) navigate(page router.Page) tea.Cmd {
	d := router.Resolve(page, m.sess.Role())
	switch d.Outcome {
	case router.NeedLogin:
		m.page = router.PageLogin
		m.setStatus(d.Reason, true)
		return nil
	case router.Unauthorized:
		m.setStatus(d.Reason, true)
		return nil
	}
	m.page = d.Page
	m.setStatus("", false)
	return m.enter(d.Page)
}

// enter loads what page shows.
func (m *Model) enter(page router.Page) tea.Cmd {
	switch page {
	case router.PageLogin:
		m.login.reset()
		return nil
	case router.PageStudentDashboard:
		return m.startLoading(summaryCmd(m.backend))
	case router.PageStudentNotes:
		return m.startLoading(notesCmd(m.backend))
	case router.PageStudentAssignments:
		return m.startLoading(assignmentsCmd(m.backend))
	case router.PageChat:
		m.chat.SetSize(m.width, m.bodyHeight())
		return nil
	case router.PageTeacherDashboard:
		return m.startLoading(subjectsCmd(m.backend))
	case router.PageTeacherAttendance:
		return nil
	case router.PageAdminDashboard:
		return m.startLoading(statsCmd(m.backend))
	default:
		return nil
	}
}

func (m *Model) startLoading(cmd tea.Cmd) tea.Cmd {
	m.loading = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

// quit writes any reply still being revealed in full before the program
// exits, so the store never keeps a partial reply.
func (m *Model) quit() tea.Cmd {
	m.chat.CancelReveal()
	m.closeModal()
	return tea.Quit
}

// signOut clears the session and returns to the login page.
func (m *Model) signOut(reason string) {
	m.chat.CancelReveal()
	if err := m.sess.Logout(); err != nil {
		m.logger.Printf("session: logout failed: %v", err)
	}
	m.closeModal()
	m.student = studentData{}
	m.teacher = teacherData{}
	m.admin = adminData{}
	m.page = router.PageLogin
	m.login.reset()
	m.setStatus(reason, reason != "")
}

// requestFailed handles an error from a data request. A 401 signs out.
func (m *Model) requestFailed(err error, fallback string) {
	m.loading = false
	if errors.Is(err, api.ErrUnauthorized) {
		m.signOut(SessionExpiredText)
		return
	}
	m.logger.Printf("request failed: %v", err)
	m.setStatus(api.Detail(err, fallback), true)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.chat.SetSize(msg.Width, m.bodyHeight())
		return m, nil

	case SessionChangedMsg:
		cmd := m.handleSessionChange(msg.State)
		return m, tea.Batch(cmd, waitForSession(m.events))

	case spinner.TickMsg:
		if msg.ID == m.spinner.ID() {
			if !m.loading && !m.login.submitting {
				return m, nil
			}
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case chatui.BackMsg:
		return m, m.navigate(router.Home(m.sess.Role()))

	case attendui.CloseMsg:
		m.closeModal()
		if msg.Marked {
			m.setStatus(core.SuccessText, false)
			return m, summaryCmd(m.backend)
		}
		return m, nil

	case loginResultMsg:
		return m, m.handleLoginResult(msg)

	case summaryMsg, notesMsg, assignmentsMsg:
		return m, m.handleStudentData(msg)

	case subjectsMsg, yearsMsg, sessionStartedMsg, clockMsg:
		return m, m.handleTeacherData(msg)

	case statsMsg:
		return m, m.handleAdminData(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else belongs to the open modal or the chat page. The chat
	// page keeps receiving replies and reveal ticks while it is off screen.
	var cmds []tea.Cmd
	if m.modalOpen {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		cmds = append(cmds, cmd)
	}
	next, cmd := m.chat.Update(msg)
	m.chat = next.(chatui.Model)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSessionChange(st session.State) tea.Cmd {
	if !st.Authenticated() {
		if m.page != router.PageLogin {
			m.signOut("Signed out")
		}
		return nil
	}
	if m.page == router.PageLogin && !m.login.submitting {
		return m.navigate(router.Home(st.Role))
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, m.quit()
	}

	if m.modalOpen {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	if m.page == router.PageLogin {
		return m, m.updateLogin(msg)
	}

	if key.Matches(msg, m.keys.Logout) {
		m.signOut("")
		return m, nil
	}

	if m.page == router.PageChat {
		if key.Matches(msg, m.keys.Quit) && !m.chat.Capturing() {
			return m, m.quit()
		}
		next, cmd := m.chat.Update(msg)
		m.chat = next.(chatui.Model)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Back):
		if home := router.Home(m.sess.Role()); m.page != home {
			return m, m.navigate(home)
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.enter(m.page)
	}

	switch m.page {
	case router.PageStudentDashboard, router.PageStudentNotes, router.PageStudentAssignments:
		return m, m.updateStudent(msg)
	case router.PageTeacherDashboard, router.PageTeacherAttendance:
		return m, m.updateTeacher(msg)
	}
	return m, nil
}

// =============================================================================
// ATTENDANCE MODAL
// =============================================================================

func (m *Model) openModal() tea.Cmd {
	m.modal = attendui.New(attendui.Options{
		Marker:     m.backend,
		Scanner:    m.scanner,
		CloseDelay: m.cfg.CloseDelay(),
		Theme:      m.theme,
	})
	m.modalOpen = true
	return m.modal.Init()
}

func (m *Model) closeModal() {
	if m.modalOpen {
		m.modal.Stop()
	}
	m.modalOpen = false
}

// ModalOpen reports whether the attendance modal is showing.
func (m Model) ModalOpen() bool {
	return m.modalOpen
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) bodyHeight() int {
	// header (2 lines) and status bar (1 line)
	return max(m.height-3, 5)
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.page {
	case router.PageLogin:
		body = m.loginView()
	case router.PageChat:
		body = m.chat.View()
	case router.PageStudentDashboard, router.PageStudentNotes, router.PageStudentAssignments:
		body = m.studentView()
	case router.PageTeacherDashboard, router.PageTeacherAttendance:
		body = m.teacherView()
	case router.PageAdminDashboard:
		body = m.adminView()
	}

	if m.modalOpen {
		body = lipgloss.Place(max(m.width, 40), m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.modal.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.statusView())
}

func (m Model) headerView() string {
	title := "NEXUS  " + m.theme.Subtitle.Render(m.page.Title())
	if st := m.sess.State(); st.Authenticated() && st.Mobile != "" {
		title += "  " + m.theme.Help.Render(st.Mobile)
	}
	return m.theme.Header.Render(title)
}

func (m Model) statusView() string {
	bar := components.StatusBar{Message: m.status, IsError: m.isError}
	if role := m.sess.Role(); role != session.RoleNone {
		bar.Role = cases.Title(language.English).String(role.String())
	}

	switch {
	case m.page == router.PageChat:
		if text, isErr := m.chat.Status(); text != "" {
			bar.Message, bar.IsError = text, isErr
		}
		bar.Keys = m.chat.KeyHelp()
	case m.page == router.PageLogin:
		bar.Keys = m.login.keyHelp()
	default:
		bar.Keys = []key.Binding{m.keys.Back, m.keys.Refresh, m.keys.Logout, m.keys.Quit}
	}
	if m.loading {
		bar.Message = strings.TrimSpace(m.spinner.View() + " Loading...")
		bar.IsError = false
	}
	return bar.View(m.theme, m.width)
}
