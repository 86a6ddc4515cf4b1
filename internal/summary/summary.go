// Package summary reduces a month's roster to per-member status counts.
package summary

import (
	"slices"
	"strings"
	"time"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
)

// Row is one member's tally for a month.
type Row struct {
	Member string
	Counts map[model.Status]int
	Total  int
}

// Count returns the tally for st.
func (r Row) Count(st model.Status) int {
	return r.Counts[st]
}

// Summarize counts, per current member, how many qualifying dates they spent
// on each status. Closed days and dates without a record contribute nothing,
// and names outside members are ignored. Rows are ordered by total
// descending, then by name.
func Summarize(month model.MonthRecord, dates []time.Time, members []string, statuses model.StatusSet) []Row {
	rows := make([]Row, len(members))
	byName := make(map[string]*Row, len(members))
	for i, m := range members {
		rows[i] = Row{Member: m, Counts: make(map[model.Status]int, statuses.Len())}
		for _, st := range statuses.All() {
			rows[i].Counts[st] = 0
		}
		byName[m] = &rows[i]
	}

	for _, d := range dates {
		day, ok := month[calendar.ISO(d)]
		if !ok || day.Closed {
			continue
		}
		for _, st := range statuses.All() {
			for _, name := range day.Lists[st] {
				row, ok := byName[name]
				if !ok {
					continue
				}
				row.Counts[st]++
				row.Total++
			}
		}
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}
		return strings.Compare(a.Member, b.Member)
	})
	return rows
}

// Totals sums every row per status.
func Totals(rows []Row, statuses model.StatusSet) map[model.Status]int {
	out := make(map[model.Status]int, statuses.Len())
	for _, r := range rows {
		for _, st := range statuses.All() {
			out[st] += r.Counts[st]
		}
	}
	return out
}
