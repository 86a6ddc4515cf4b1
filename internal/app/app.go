package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/session"
	"github.com/nhle/saturday-roster/internal/theme"
	"github.com/nhle/saturday-roster/internal/ui"
	"github.com/nhle/saturday-roster/internal/ui/board"
	"github.com/nhle/saturday-roster/internal/ui/command"
	helpview "github.com/nhle/saturday-roster/internal/ui/help"
	"github.com/nhle/saturday-roster/internal/ui/members"
	"github.com/nhle/saturday-roster/internal/ui/notes"
	summaryview "github.com/nhle/saturday-roster/internal/ui/summary"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewMembers
	ViewNotes
	ViewSummary
	ViewHelp
	ViewCommand
	ViewConfirm
)

// DraftFunc files a month's reports as a mail draft.
type DraftFunc func(ctx context.Context, r render.Report) error

// Options configures the root model.
type Options struct {
	Logger *zap.Logger

	// Year and Month select the month activated on start.
	Year  int
	Month int

	// Draft is nil when no mail account is configured.
	Draft DraftFunc

	Now func() time.Time
}

type confirmBindings struct {
	path string
	ok   bool
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the session.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	guard        *guard
	keys         *KeyMap
	logger       *zap.Logger
	draft        DraftFunc
	now          func() time.Time

	board       board.Model
	memberView  members.Model
	notesView   notes.Model
	summaryView summaryview.Model
	helpView    helpview.Model
	commandView command.Model
	confirmForm *huh.Form
	confirm     *confirmBindings

	startYear  int
	startMonth int
	period     string
	ready      bool
	statusText string
	statusErr  bool
}

// New creates a new root application model over sess.
func New(sess *session.Session, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Year == 0 || opts.Month == 0 {
		t := opts.Now()
		opts.Year, opts.Month = t.Year(), int(t.Month())
	}

	return Model{
		currentView: ViewBoard,
		guard:       &guard{sess: sess},
		keys:        keys,
		logger:      opts.Logger,
		draft:       opts.Draft,
		now:         opts.Now,
		board:       board.New(keys, sess.Statuses(), 80, 24),
		memberView:  members.New(keys, 80, 24),
		notesView:   notes.New(keys, 80, 24),
		summaryView: summaryview.New(keys, 80, 24),
		helpView:    helpview.New(keys, 80, 24),
		commandView: command.New(80, 24),
		confirm:     &confirmBindings{},
		startYear:   opts.Year,
		startMonth:  opts.Month,
	}
}

// Init activates the start month.
func (m Model) Init() tea.Cmd {
	return m.activate(m.startYear, m.startMonth)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.board.SetSize(contentWidth, contentHeight)
		m.memberView.SetSize(contentWidth, contentHeight)
		m.notesView.SetSize(contentWidth, contentHeight)
		m.summaryView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case monthLoadedMsg:
		m.setStatus(msg.status, msg.err)
		m.memberView.SetMembers(msg.members)
		if msg.year != 0 {
			m.period = render.Report{Year: msg.year, Month: msg.month}.Period()
			m.board.SetMonth(m.period, msg.dates, msg.days)
			m.notesView.SetNotes(m.period, msg.notes)
		}
		m.memberView.SetStatus(msg.status)
		m.notesView.SetStatus(msg.status)
		if m.currentView == ViewSummary {
			return m, m.loadSummary()
		}
		return m, nil

	case dayUpdatedMsg:
		m.setStatus("", msg.err)
		if msg.day.Lists != nil {
			m.board.SetDay(msg.date, msg.day)
		}
		return m, nil

	case statusMsg:
		m.setStatus(msg.text, msg.err)
		return m, nil

	case summaryLoadedMsg:
		if msg.err != nil {
			m.setStatus("", msg.err)
			return m, nil
		}
		m.summaryView.SetRows(m.period, msg.rows, m.board.Statuses())
		return m, nil

	case board.EditMsg:
		return m, m.editDay(msg.Date, msg.Columns)

	case board.ToggleClosedMsg:
		return m, m.setClosed(msg.Date, msg.Closed)

	case board.ShiftMonthMsg:
		return m, m.shiftMonth(msg.Delta)

	case members.AddMsg:
		return m, m.addMember(msg.Name)

	case members.RemoveMsg:
		return m, m.removeMember(msg.Name)

	case members.CloseMsg, notes.CloseMsg, summaryview.CloseMsg:
		m.currentView = ViewBoard
		return m, nil

	case notes.AddMsg:
		return m, m.addNote(msg.Text)

	case notes.RemoveMsg:
		return m, m.removeNote(msg.ID)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey handles keys that switch views. Keys typed into a form or
// the palette are left to that view.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.inputFocused() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true
	}

	if m.currentView == ViewHelp && key.Matches(msg, m.keys.Back) {
		m.currentView = m.previousView
		return nil, true
	}
	if m.currentView != ViewBoard {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Members):
		m.previousView = m.currentView
		m.currentView = ViewMembers
		return nil, true

	case key.Matches(msg, m.keys.Notes):
		m.previousView = m.currentView
		m.currentView = ViewNotes
		return nil, true

	case key.Matches(msg, m.keys.Summary):
		m.previousView = m.currentView
		m.currentView = ViewSummary
		return m.loadSummary(), true
	}
	return nil, false
}

// inputFocused reports whether the active view is capturing text.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewCommand, ViewConfirm:
		return true
	case ViewMembers:
		return m.memberView.Editing()
	case ViewNotes:
		return m.notesView.Editing()
	}
	return false
}

func (m *Model) setStatus(text string, err error) {
	if err != nil {
		m.statusText = err.Error()
		m.statusErr = true
		return
	}
	m.statusText = text
	m.statusErr = false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.board, cmd = m.board.Update(msg)
	case ViewMembers:
		m.memberView, cmd = m.memberView.Update(msg)
	case ViewNotes:
		m.notesView, cmd = m.notesView.Update(msg)
	case ViewSummary:
		m.summaryView, cmd = m.summaryView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewConfirm:
		return m.updateConfirm(msg)
	}

	return m, cmd
}

// updateConfirm drives the import confirmation form.
func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.currentView = m.previousView
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.currentView = m.previousView
		if m.confirm.ok {
			return m, m.importPackage(m.confirm.path)
		}
		m.setStatus("Import cancelled", nil)
		return m, nil
	case huh.StateAborted:
		m.currentView = m.previousView
		m.setStatus("Import cancelled", nil)
		return m, nil
	}
	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Saturday Roster", m.period)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.board.View()
	case ViewMembers:
		return m.memberView.View()
	case ViewNotes:
		return m.notesView.View()
	case ViewSummary:
		return m.summaryView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewConfirm:
		if m.confirmForm == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show the last action's outcome prominently when present.
	if m.statusText != "" && m.currentView == ViewBoard {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.statusText)
		}
		return m.statusText
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewConfirm:
		return "enter confirm | esc cancel"
	case ViewMembers:
		return "a add | d remove | esc back"
	case ViewNotes:
		return "a add | d delete | esc back"
	case ViewSummary:
		return "j/k scroll | esc back"
	default:
		return "q quit | ? help | : command | H/L move | x close | [ ] month | m members | n notes | s summary"
	}
}

// Period returns the label of the active month.
func (m Model) Period() string { return m.period }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }
