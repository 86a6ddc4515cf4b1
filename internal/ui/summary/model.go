package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/saturday-roster/internal/keys"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/render"
	rowsummary "github.com/nhle/saturday-roster/internal/summary"
	"github.com/nhle/saturday-roster/internal/theme"
)

// CloseMsg signals the parent to close the summary view.
type CloseMsg struct{}

// Model shows the per-member status counts of the active month.
type Model struct {
	keys     *keys.KeyMap
	viewport viewport.Model
	period   string
	width    int
	height   int
}

// New creates a new summary view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:     k,
		viewport: viewport.New(width-4, height-4),
		width:    width,
		height:   height,
	}
}

// SetRows renders rows into the view.
func (m *Model) SetRows(period string, rows []rowsummary.Row, statuses model.StatusSet) {
	m.period = period

	var b strings.Builder
	if len(rows) == 0 {
		b.WriteString(theme.DimmedStyle.Render("No members registered."))
	} else {
		b.WriteString(render.SummaryTable(rows, statuses))
		b.WriteString("\n\n")
		totals := rowsummary.Totals(rows, statuses)
		for i, st := range statuses.All() {
			b.WriteString(theme.StatusStyle(i).Render(string(st)))
			b.WriteString(fmt.Sprintf(": %d\n", totals[st]))
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the summary.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	title := titleStyle.Render("Summary " + m.period)

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View()),
	)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = height - 4
}
