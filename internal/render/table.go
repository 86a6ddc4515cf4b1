package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/summary"
)

var (
	headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	bodyCell   = lipgloss.NewStyle().Padding(0, 1)
	countCell  = bodyCell.Align(lipgloss.Right)
	tableFrame = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SummaryTable renders the summary rows as a bordered terminal table.
func SummaryTable(rows []summary.Row, statuses model.StatusSet) string {
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		record := make([]string, 0, statuses.Len()+2)
		record = append(record, r.Member)
		for _, st := range statuses.All() {
			record = append(record, strconv.Itoa(r.Count(st)))
		}
		record = append(record, strconv.Itoa(r.Total))
		body = append(body, record)
	}

	headers := append([]string{MemberHeader}, statuses.Labels()...)
	headers = append(headers, "Total")

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableFrame).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case col == 0:
				return bodyCell
			default:
				return countCell
			}
		}).
		String()
}

// DayTable renders one day as a table with a column per status. A closed
// day renders as the holiday notice.
func DayTable(day model.DayRecord, statuses model.StatusSet) string {
	if day.Closed {
		return headerCell.Render(ClosedNotice)
	}

	height := 0
	for _, st := range statuses.All() {
		height = max(height, len(day.Lists[st]))
	}

	body := make([][]string, height)
	for i := range body {
		body[i] = make([]string, statuses.Len())
		for j, st := range statuses.All() {
			if names := day.Lists[st]; i < len(names) {
				body[i][j] = names[i]
			}
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableFrame).
		Headers(statuses.Labels()...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		}).
		String()
}

// Outline lists a month day by day as plain text, for mail bodies.
func Outline(r Report) string {
	var b strings.Builder
	b.WriteString(scheduleTitle + " - " + r.Period() + "\n")
	b.WriteString(membersLabel + " " + strconv.Itoa(len(r.Members)) + "\n")

	for _, date := range r.Dates {
		b.WriteString("\n" + DisplayDate(date) + "\n")
		day := r.Day(date)
		if day.Closed {
			b.WriteString("  " + ClosedNotice + "\n")
			continue
		}
		for _, st := range r.Statuses.All() {
			names := day.Lists[st]
			if len(names) == 0 {
				continue
			}
			b.WriteString("  " + string(st) + ": " + strings.Join(names, ", ") + "\n")
		}
	}

	b.WriteString("\n" + considerationsHead + "\n")
	written := 0
	for _, note := range r.Considerations {
		if text := strings.TrimSpace(note.Text); text != "" {
			b.WriteString("  " + bullet + text + "\n")
			written++
		}
	}
	if written == 0 {
		b.WriteString("  " + noConsiderations + "\n")
	}
	return b.String()
}
