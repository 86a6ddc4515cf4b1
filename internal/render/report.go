// Package render turns an already reconciled month into CSV, PDF and
// terminal output. Nothing here validates or repairs data.
package render

import (
	"fmt"
	"time"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/summary"
)

// Report is everything the renderers need about one month.
type Report struct {
	Year  int
	Month int

	Statuses model.StatusSet
	Dates    []time.Time
	Days     model.MonthRecord
	Members  []string
	Rows     []summary.Row

	Considerations []model.Consideration
}

// Period formats the month for titles, e.g. "Março/2024".
func (r Report) Period() string {
	return fmt.Sprintf("%s/%d", calendar.MonthName(r.Month), r.Year)
}

// Day returns the record for date, or an open empty day when missing.
func (r Report) Day(date time.Time) model.DayRecord {
	if day, ok := r.Days[calendar.ISO(date)]; ok {
		return day
	}
	return model.NewDayRecord(r.Statuses)
}

// File stems of the month's exported reports.
const (
	SummaryStem  = "resumo_status"
	ScheduleStem = "escala_sabados"
)

// FileStem returns the base name used for exported files of this month.
func (r Report) FileStem(kind string) string {
	return fmt.Sprintf("%s_%04d_%02d", kind, r.Year, r.Month)
}

// DisplayDate formats a date the way reports show it.
func DisplayDate(d time.Time) string {
	return d.Format("02/01/2006")
}
