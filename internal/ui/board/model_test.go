package board

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/keys"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/roster"
)

var statuses = model.ReferenceStatusSet()

func newBoard(t *testing.T) Model {
	t.Helper()
	dates, err := calendar.Saturdays.Resolve(2024, 3)
	require.NoError(t, err)
	days := roster.ReconcileMonth(nil, dates, []string{"Ana", "Bob"}, statuses)

	m := New(keys.DefaultKeyMap(), statuses, 160, 40)
	m.SetMonth("Março/2024", dates, days)
	return m
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to m and runs the returned command, if any.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestShiftEmitsEdit(t *testing.T) {
	m := newBoard(t)
	name, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "Ana", name)

	m, out := send(t, m, press("L"))
	edit, ok := out.(EditMsg)
	require.True(t, ok, "expected EditMsg, got %T", out)

	assert.Equal(t, "2024-03-02", edit.Date)
	assert.Equal(t, "Ana", edit.Focus)
	require.Len(t, edit.Columns, statuses.Len())
	assert.Equal(t, []string{"Bob"}, edit.Columns[0].Names)
	assert.Equal(t, string(model.StatusAfternoonDesk), edit.Columns[1].Label)
	assert.Equal(t, []string{"Ana"}, edit.Columns[1].Names)

	col, row := m.Cursor()
	assert.Equal(t, 1, col)
	assert.Equal(t, 0, row)
}

func TestShiftPastEdgeEmitsNothing(t *testing.T) {
	m := newBoard(t)
	_, out := send(t, m, press("H"))
	assert.Nil(t, out)
}

func TestNudgeEmitsReorder(t *testing.T) {
	m := newBoard(t)
	_, out := send(t, m, press("J"))
	edit, ok := out.(EditMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"Bob", "Ana"}, edit.Columns[0].Names)
}

func TestCursorFollowsStoredResult(t *testing.T) {
	m := newBoard(t)
	m, out := send(t, m, press("L"))
	edit := out.(EditMsg)

	stored := roster.ApplyEdit(edit.Columns, []string{"Ana", "Bob"}, statuses)
	m.SetDay(edit.Date, stored)

	name, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Ana", name)
}

func TestCursorMovement(t *testing.T) {
	m := newBoard(t)

	m, _ = send(t, m, press("j"))
	name, _ := m.Selected()
	assert.Equal(t, "Bob", name)

	// Rows clamp at the end of the list.
	m, _ = send(t, m, press("j"))
	name, _ = m.Selected()
	assert.Equal(t, "Bob", name)

	// Moving onto an empty column leaves nothing selected.
	m, _ = send(t, m, press("l"))
	_, ok := m.Selected()
	assert.False(t, ok)

	m, _ = send(t, m, press("h"))
	_, ok = m.Selected()
	assert.True(t, ok)
}

func TestDateTabs(t *testing.T) {
	m := newBoard(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	date, ok := m.CurrentDate()
	require.True(t, ok)
	assert.Equal(t, "2024-03-09", date)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	date, _ = m.CurrentDate()
	assert.Equal(t, "2024-03-30", date)
}

func TestToggleClosed(t *testing.T) {
	m := newBoard(t)

	_, out := send(t, m, press("x"))
	assert.Equal(t, ToggleClosedMsg{Date: "2024-03-02", Closed: true}, out)

	m.SetDay("2024-03-02", roster.SetClosed(model.DayRecord{}, true, nil, statuses))
	assert.Contains(t, m.View(), render.ClosedNotice)

	_, out = send(t, m, press("L"))
	assert.Nil(t, out, "closed dates cannot be edited")

	_, out = send(t, m, press("x"))
	assert.Equal(t, ToggleClosedMsg{Date: "2024-03-02", Closed: false}, out)
}

func TestMonthSwitching(t *testing.T) {
	m := newBoard(t)

	_, out := send(t, m, press("["))
	assert.Equal(t, ShiftMonthMsg{Delta: -1}, out)

	_, out = send(t, m, press("]"))
	assert.Equal(t, ShiftMonthMsg{Delta: 1}, out)
}

func TestView(t *testing.T) {
	m := newBoard(t)
	view := m.View()
	assert.Contains(t, view, "02/03/2024")
	assert.Contains(t, view, "Ana")

	empty := New(keys.DefaultKeyMap(), statuses, 80, 20)
	empty.SetMonth("Fevereiro/2024", nil, nil)
	assert.Contains(t, empty.View(), "No qualifying dates")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Ana", truncate("Ana", 10))
	assert.Equal(t, "Atend…", truncate("Atendimento", 6))
}
