// Package board is the month board: one tab per qualifying date and one
// column per status. Keys move the member under the cursor between and
// within columns; every move is emitted as raw columns for edit ingestion.
package board

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/keys"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/roster"
	"github.com/nhle/saturday-roster/internal/theme"
	"github.com/nhle/saturday-roster/internal/ui"
)

// EditMsg carries the columns of a date after a move. Focus names the
// member that moved so the cursor can follow it.
type EditMsg struct {
	Date    string
	Columns []roster.Column
	Focus   string
}

// ToggleClosedMsg asks to close or reopen a date.
type ToggleClosedMsg struct {
	Date   string
	Closed bool
}

// ShiftMonthMsg asks to activate the month delta months away.
type ShiftMonthMsg struct {
	Delta int
}

// Model is the Bubble Tea model for the board.
type Model struct {
	keys     *keys.KeyMap
	statuses model.StatusSet

	period string
	dates  []time.Time
	days   model.MonthRecord

	tab   int
	col   int
	row   int
	focus string

	width  int
	height int
}

// New creates an empty board.
func New(k *keys.KeyMap, statuses model.StatusSet, width, height int) Model {
	return Model{
		keys:     k,
		statuses: statuses,
		width:    width,
		height:   height,
	}
}

// SetMonth replaces the month shown. The date tab is kept when it still
// exists.
func (m *Model) SetMonth(period string, dates []time.Time, days model.MonthRecord) {
	m.period = period
	m.dates = dates
	m.days = days
	if m.tab >= len(dates) {
		m.tab = 0
	}
	m.refocus()
}

// SetDay replaces one date's record, typically the stored result of an
// edit, and moves the cursor to the focused member.
func (m *Model) SetDay(date string, day model.DayRecord) {
	if m.days == nil {
		m.days = model.MonthRecord{}
	}
	m.days[date] = day
	m.refocus()
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Statuses returns the status enumeration the columns follow.
func (m Model) Statuses() model.StatusSet { return m.statuses }

// Period returns the label of the month shown.
func (m Model) Period() string { return m.period }

// CurrentDate returns the ISO key of the selected date tab.
func (m Model) CurrentDate() (string, bool) {
	if m.tab < 0 || m.tab >= len(m.dates) {
		return "", false
	}
	return calendar.ISO(m.dates[m.tab]), true
}

// Selected returns the member under the cursor.
func (m Model) Selected() (string, bool) {
	day, ok := m.currentDay()
	if !ok || day.Closed {
		return "", false
	}
	names := day.Lists[m.statusAt(m.col)]
	if m.row < 0 || m.row >= len(names) {
		return "", false
	}
	return names[m.row], true
}

// Cursor returns the column and row of the cursor.
func (m Model) Cursor() (col, row int) { return m.col, m.row }

func (m Model) currentDay() (model.DayRecord, bool) {
	date, ok := m.CurrentDate()
	if !ok {
		return model.DayRecord{}, false
	}
	day, ok := m.days[date]
	return day, ok
}

func (m Model) statusAt(col int) model.Status {
	all := m.statuses.All()
	if col < 0 || col >= len(all) {
		return ""
	}
	return all[col]
}

// refocus puts the cursor on the focused member if it is on the current
// date, and otherwise clamps it to the current column.
func (m *Model) refocus() {
	day, ok := m.currentDay()
	if !ok {
		m.col, m.row = 0, 0
		return
	}
	if m.focus != "" {
		if c, r, found := roster.Locate(roster.Columns(day, m.statuses), m.focus); found {
			m.col, m.row = c, r
			return
		}
	}
	m.clamp(day)
}

func (m *Model) clamp(day model.DayRecord) {
	if m.col < 0 {
		m.col = 0
	}
	if n := m.statuses.Len(); m.col >= n {
		m.col = n - 1
	}
	names := day.Lists[m.statusAt(m.col)]
	if m.row >= len(names) {
		m.row = len(names) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevMonth):
		return m, func() tea.Msg { return ShiftMonthMsg{Delta: -1} }

	case key.Matches(msg, m.keys.NextMonth):
		return m, func() tea.Msg { return ShiftMonthMsg{Delta: 1} }

	case key.Matches(msg, m.keys.NextDate):
		if len(m.dates) > 0 {
			m.tab = (m.tab + 1) % len(m.dates)
			m.refocus()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDate):
		if len(m.dates) > 0 {
			m.tab--
			if m.tab < 0 {
				m.tab = len(m.dates) - 1
			}
			m.refocus()
		}
		return m, nil
	}

	day, ok := m.currentDay()
	if !ok {
		return m, nil
	}
	date, _ := m.CurrentDate()

	if key.Matches(msg, m.keys.ToggleClosed) {
		closed := !day.Closed
		return m, func() tea.Msg { return ToggleClosedMsg{Date: date, Closed: closed} }
	}
	if day.Closed {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.col--
		m.focus = ""
		m.clamp(day)

	case key.Matches(msg, m.keys.Right):
		m.col++
		m.focus = ""
		m.clamp(day)

	case key.Matches(msg, m.keys.Up):
		m.row--
		m.focus = ""
		m.clamp(day)

	case key.Matches(msg, m.keys.Down):
		m.row++
		m.focus = ""
		m.clamp(day)

	case key.Matches(msg, m.keys.ShiftLeft):
		return m.move(date, day, func(cols []roster.Column, name string) []roster.Column {
			return roster.Shift(cols, name, -1)
		})

	case key.Matches(msg, m.keys.ShiftRight):
		return m.move(date, day, func(cols []roster.Column, name string) []roster.Column {
			return roster.Shift(cols, name, 1)
		})

	case key.Matches(msg, m.keys.NudgeUp):
		return m.move(date, day, func(cols []roster.Column, name string) []roster.Column {
			return roster.Nudge(cols, name, -1)
		})

	case key.Matches(msg, m.keys.NudgeDown):
		return m.move(date, day, func(cols []roster.Column, name string) []roster.Column {
			return roster.Nudge(cols, name, 1)
		})
	}
	return m, nil
}

// move applies fn to the member under the cursor and emits the resulting
// columns. Moves that change nothing emit nothing.
func (m Model) move(date string, day model.DayRecord, fn func([]roster.Column, string) []roster.Column) (Model, tea.Cmd) {
	name, ok := m.Selected()
	if !ok {
		return m, nil
	}
	cols := roster.Columns(day, m.statuses)
	moved := fn(cols, name)

	c, r, found := roster.Locate(moved, name)
	if !found || (c == m.col && r == m.row) {
		return m, nil
	}
	m.col, m.row, m.focus = c, r, name

	return m, func() tea.Msg {
		return EditMsg{Date: date, Columns: moved, Focus: name}
	}
}

// View renders the board.
func (m Model) View() string {
	var b strings.Builder

	if len(m.dates) == 0 {
		b.WriteString(theme.DimmedStyle.Render("No qualifying dates in " + m.period + "."))
		return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
	}

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	day, _ := m.currentDay()
	if day.Closed {
		b.WriteString(theme.ClosedStyle.Render(render.ClosedNotice))
	} else {
		b.WriteString(m.viewColumns(day))
	}

	return lipgloss.NewStyle().Padding(0, 1).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(m.dates))
	for i, d := range m.dates {
		label := render.DisplayDate(d)
		if day, ok := m.days[calendar.ISO(d)]; ok && day.Closed {
			label += " ✕"
		}
		if i == m.tab {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewColumns(day model.DayRecord) string {
	all := m.statuses.All()
	width := ui.ColumnWidth(m.width-2, len(all))

	columns := make([]string, 0, len(all))
	for i, st := range all {
		var c strings.Builder
		heading := truncate(string(st), width)
		c.WriteString(theme.StatusStyle(i).Render(heading))
		c.WriteString("\n")

		names := day.Lists[st]
		if len(names) == 0 {
			c.WriteString(theme.DimmedStyle.Render("-"))
		}
		for r, name := range names {
			label := truncate(name, width-2)
			if i == m.col && r == m.row {
				c.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				c.WriteString(theme.ListItemStyle.Render(label))
			}
			c.WriteString("\n")
		}

		columns = append(columns, theme.ColumnStyle(i, i == m.col).Width(width).Render(c.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// truncate shortens s to at most width cells.
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
