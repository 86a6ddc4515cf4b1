// Package roster keeps every day of a month a valid partition of the member
// list across the statuses. All functions are pure: inputs are never
// mutated.
package roster

import (
	"time"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
)

// ReconcileMonth repairs month against the qualifying dates and the current
// members. Dates no longer qualifying are dropped, new dates are seeded with
// everyone on the default status, and existing days are sanitized. Calling it
// again with the same inputs returns an equal record.
func ReconcileMonth(month model.MonthRecord, dates []time.Time, members []string, statuses model.StatusSet) model.MonthRecord {
	out := make(model.MonthRecord, len(dates))
	for _, d := range dates {
		key := calendar.ISO(d)
		day, ok := month[key]
		if !ok {
			out[key] = SeedDay(members, statuses)
			continue
		}
		out[key] = SanitizeDay(day, members, statuses)
	}
	return out
}

// SeedDay returns an open day with every member on the default status.
func SeedDay(members []string, statuses model.StatusSet) model.DayRecord {
	day := model.NewDayRecord(statuses)
	day.Lists[statuses.Default()] = append([]string{}, members...)
	return day
}

// SanitizeDay restores the day invariants. A closed day has every list
// emptied. On an open day each list keeps only current members, the first
// occurrence of a name wins (statuses scanned in display order), members
// assigned nowhere are appended to the default status in member order, and
// lists for labels outside the enumeration are discarded.
func SanitizeDay(day model.DayRecord, members []string, statuses model.StatusSet) model.DayRecord {
	out := model.NewDayRecord(statuses)
	out.Closed = day.Closed
	if day.Closed {
		return out
	}

	current := make(map[string]struct{}, len(members))
	for _, m := range members {
		current[m] = struct{}{}
	}

	seen := make(map[string]struct{}, len(members))
	for _, st := range statuses.All() {
		for _, name := range day.Lists[st] {
			if _, ok := current[name]; !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out.Lists[st] = append(out.Lists[st], name)
		}
	}

	def := statuses.Default()
	for _, m := range members {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out.Lists[def] = append(out.Lists[def], m)
	}
	return out
}

// SetClosed toggles a day. Closing empties every list; reopening seeds every
// member onto the default status without restoring earlier assignments.
// Setting the flag to its current value only re-sanitizes the day.
func SetClosed(day model.DayRecord, closed bool, members []string, statuses model.StatusSet) model.DayRecord {
	if closed == day.Closed {
		return SanitizeDay(day, members, statuses)
	}
	if closed {
		out := model.NewDayRecord(statuses)
		out.Closed = true
		return out
	}
	return SeedDay(members, statuses)
}
