package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/roster"
	"github.com/nhle/saturday-roster/internal/summary"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	statuses := model.ReferenceStatusSet()
	members := []string{"Ana", "Bob", "João"}
	dates, err := calendar.Saturdays.Resolve(2024, 3)
	require.NoError(t, err)

	days := roster.ReconcileMonth(nil, dates, members, statuses)
	days["2024-03-09"] = roster.ApplyEdit([]roster.Column{
		{Label: string(model.StatusLab), Names: []string{"João"}},
	}, members, statuses)
	days["2024-03-16"] = roster.SetClosed(days["2024-03-16"], true, members, statuses)

	return Report{
		Year:     2024,
		Month:    3,
		Statuses: statuses,
		Dates:    dates,
		Days:     days,
		Members:  members,
		Rows:     summary.Summarize(days, dates, members, statuses),
		Considerations: []model.Consideration{
			{ID: "1", Text: "João precisa trabalhar o primeiro sábado de tarde", CreatedAt: model.NewTimestamp(time.Now())},
		},
	}
}

func TestSummaryCSV(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, SummaryCSV(&buf, r.Rows, r.Statuses))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, append([]string{"Colaborador"}, r.Statuses.Labels()...), records[0])
	assert.Equal(t, []string{"Ana", "4", "0", "0", "0", "0", "0", "0"}, records[1])
	assert.Equal(t, "João", records[3][0])
	assert.Equal(t, "1", records[3][3])
}

func TestPDFs(t *testing.T) {
	r := sampleReport(t)

	for name, fn := range map[string]func(*bytes.Buffer, Report) error{
		"summary":  func(b *bytes.Buffer, r Report) error { return SummaryPDF(b, r) },
		"schedule": func(b *bytes.Buffer, r Report) error { return SchedulePDF(b, r) },
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, fn(&buf, r))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
			assert.Contains(t, buf.String(), "%%EOF")
		})
	}
}

func TestPDFWithoutConsiderationsOrDates(t *testing.T) {
	r := sampleReport(t)
	r.Considerations = nil
	r.Dates = nil

	var buf bytes.Buffer
	require.NoError(t, SchedulePDF(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestTables(t *testing.T) {
	r := sampleReport(t)

	out := SummaryTable(r.Rows, r.Statuses)
	assert.Contains(t, out, "Colaborador")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "João")

	day := DayTable(r.Days["2024-03-09"], r.Statuses)
	assert.Contains(t, day, "Laboratório")
	assert.Contains(t, day, "João")

	closed := DayTable(r.Days["2024-03-16"], r.Statuses)
	assert.Contains(t, closed, "FERIADO")
}

func TestOutline(t *testing.T) {
	r := sampleReport(t)
	out := Outline(r)

	assert.Contains(t, out, "Escala de Sábados - Março/2024")
	assert.Contains(t, out, "09/03/2024\n  Atendimento 08:00-14:00: Ana, Bob\n  Laboratório: João")
	assert.Contains(t, out, "16/03/2024\n  FERIADO")
	assert.Contains(t, out, "• João precisa")

	r.Considerations = nil
	assert.Contains(t, Outline(r), "Nenhuma consideração")
}

func TestReportHelpers(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, "Março/2024", r.Period())
	assert.Equal(t, "resumo_status_2024_03", r.FileStem(SummaryStem))

	missing := r.Day(calendar.Date(2024, 4, 6))
	assert.False(t, missing.Closed)
	assert.Len(t, missing.Lists, r.Statuses.Len())
}
