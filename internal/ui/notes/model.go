package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/saturday-roster/internal/keys"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/theme"
)

// CloseMsg signals the parent to close the notes view.
type CloseMsg struct{}

// AddMsg asks the parent to add a consideration to the active month.
type AddMsg struct{ Text string }

// RemoveMsg asks the parent to delete a consideration.
type RemoveMsg struct{ ID string }

type notesMode int

const (
	modeList notesMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	text    string
	confirm bool
}

// Model is the Bubble Tea model for the month's considerations.
type Model struct {
	mode        notesMode
	keys        *keys.KeyMap
	period      string
	notes       []model.Consideration
	selectedIdx int
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new notes model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetNotes replaces the listed considerations of period.
func (m *Model) SetNotes(period string, notes []model.Consideration) {
	m.period = period
	m.notes = notes
	if m.selectedIdx >= len(m.notes) && m.selectedIdx > 0 {
		m.selectedIdx = len(m.notes) - 1
	}
}

// SetStatus shows msg under the list.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// Editing reports whether a form has keyboard focus.
func (m Model) Editing() bool {
	return m.mode != modeList
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.notes) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.notes)
		}

	case key.Matches(msg, m.keys.Up):
		if len(m.notes) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.notes) - 1
			}
		}

	case msg.String() == "a":
		m.fb.text = ""
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("Consideration for " + m.period).
					Placeholder("e.g. Ana covers the first Saturday afternoon").
					Value(&m.fb.text).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("text is required")
						}
						return nil
					}),
			),
		).WithWidth(m.formWidth()).WithHeight(m.formHeight())
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.notes) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Delete this consideration?").
					Description(m.notes[m.selectedIdx].Text).
					Affirmative("Yes, delete").
					Negative("Cancel").
					Value(&m.fb.confirm),
			),
		).WithWidth(m.formWidth()).WithHeight(m.formHeight())
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeList
		text := m.fb.text
		return m, func() tea.Msg { return AddMsg{Text: text} }
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.mode = modeList
		if m.fb.confirm && m.selectedIdx < len(m.notes) {
			id := m.notes[m.selectedIdx].ID
			return m, func() tea.Msg { return RemoveMsg{ID: id} }
		}
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the notes view.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Considerations " + m.period))
	b.WriteString("\n\n")

	if len(m.notes) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No considerations for this month. Press 'a' to add one."))
	} else {
		wrap := lipgloss.NewStyle().Width(m.width - 8)
		for i, n := range m.notes {
			stamp := theme.DimmedStyle.Render(n.CreatedAt.Format("02/01/2006 15:04"))
			label := lipgloss.JoinVertical(lipgloss.Left, stamp, wrap.Render(n.Text))

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"a add | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
