// Package tui is the interactive terminal UI. One root model owns the
// navigation controller and mounts the screen that matches its state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ptask/internal/nav"
	"ptask/internal/screens"
	"ptask/internal/service"
	"ptask/internal/session"
)

// Options wires the UI to the rest of the program.
type Options struct {
	Service service.Service
	Session session.Store
	Nav     *nav.Controller

	// In and Out default to the terminal.
	In  io.Reader
	Out io.Writer
}

// Model is the root bubbletea model.
type Model struct {
	ctx   context.Context
	svc   service.Service
	store session.Store
	nav   *nav.Controller
	log   *slog.Logger

	mounted nav.State
	auth    authView
	list    *listView
	detail  *detailView

	width int
}

// New creates the root model. The first screen is mounted by Init.
func New(ctx context.Context, opts Options) Model {
	return Model{
		ctx:   ctx,
		svc:   opts.Service,
		store: opts.Session,
		nav:   opts.Nav,
		log:   slog.Default().With("component", "tui"),
	}
}

// Init loads the first screen.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return navChangedMsg{to: m.nav.State()} }
}

// Mounted returns the state whose screen is showing.
func (m Model) Mounted() nav.State {
	return m.mounted
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case navChangedMsg:
		return m, m.sync()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.unmount()
			return m, tea.Quit
		case "ctrl+l":
			if _, ok := m.mounted.(nav.Auth); !ok {
				m.nav.Logout()
				return m, m.sync()
			}
		}
	}

	var cmd tea.Cmd
	switch m.mounted.(type) {
	case nav.Auth:
		m.auth, cmd = m.auth.update(m.ctx, msg)
	case nav.ProjectList:
		cmd = m.list.update(msg)
	case nav.ProjectDetail:
		cmd = m.detail.update(msg)
	}
	// Any action above, or a rejected credential on a request that just
	// finished, may have moved the controller.
	return m, tea.Batch(cmd, m.sync())
}

// sync mounts the screen for the controller's state if it changed.
func (m *Model) sync() tea.Cmd {
	state := m.nav.State()
	if m.mounted != nil && state == m.mounted {
		return nil
	}
	m.log.Debug("mount", "from", stateName(m.mounted), "to", state.String())
	m.unmount()
	m.mounted = state

	switch s := state.(type) {
	case nav.Auth:
		m.auth = newAuthView(screens.NewAuthForm(m.svc, m.store, m.nav))
		return nil
	case nav.ProjectList:
		m.list = newListView(screens.NewProjectList(m.ctx, m.svc), m.nav)
		return m.list.load()
	case nav.ProjectDetail:
		m.detail = newDetailView(screens.NewProjectDetail(m.ctx, m.svc, s.ProjectID), m.nav)
		return m.detail.load()
	}
	return nil
}

func (m *Model) unmount() {
	if m.list != nil {
		m.list.screen.Close()
		m.list = nil
	}
	if m.detail != nil {
		m.detail.screen.Close()
		m.detail = nil
	}
}

func (m Model) View() string {
	var body string
	switch m.mounted.(type) {
	case nav.Auth:
		body = m.auth.view()
	case nav.ProjectList:
		body = m.list.view()
	case nav.ProjectDetail:
		body = m.detail.view()
	default:
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), "", body)
}

func (m Model) header() string {
	title := headerStyle.Render("ptask")
	if _, ok := m.mounted.(nav.Auth); ok {
		return title
	}
	crumbs := []string{"Dashboard", "Projects"}
	if id, ok := nav.ActiveProject(m.mounted); ok && m.detail != nil {
		if p := m.detail.screen.Project(); p != nil {
			crumbs = append(crumbs, p.Title)
		} else {
			crumbs = append(crumbs, fmt.Sprintf("#%d", id))
		}
	}
	return title + "  " + crumbStyle.Render(strings.Join(crumbs, " / "))
}

func stateName(s nav.State) string {
	if s == nil {
		return "none"
	}
	return s.String()
}

// Run starts the UI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}
	if opts.Out != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Out))
	}
	p := tea.NewProgram(New(ctx, opts), progOpts...)

	// Transitions can happen on request goroutines; Send must not block
	// the caller, which may be Update itself.
	opts.Nav.Subscribe(func(from, to nav.State) {
		go p.Send(navChangedMsg{from: from, to: to})
	})

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.unmount()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
