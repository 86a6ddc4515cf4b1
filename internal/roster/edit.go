package roster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nhle/saturday-roster/internal/model"
)

// Column is one status column of an edited day as the board presents it:
// a label and its names, top to bottom.
type Column struct {
	Label string
	Names []string
}

// ApplyEdit turns raw board columns into a consistent open day. Labels that
// do not exactly match a status are dropped, names that are blank after
// trimming are dropped, and when a label repeats the later column wins. The
// result then goes through the open-day sanitize filter, so members the edit
// lost land on the default status.
func ApplyEdit(columns []Column, members []string, statuses model.StatusSet) model.DayRecord {
	raw := model.DayRecord{Lists: make(map[model.Status][]string, len(columns))}
	for _, col := range columns {
		st, ok := statuses.Lookup(col.Label)
		if !ok {
			continue
		}
		names := make([]string, 0, len(col.Names))
		for _, name := range col.Names {
			if strings.TrimSpace(name) == "" {
				continue
			}
			names = append(names, name)
		}
		raw.Lists[st] = names
	}
	return SanitizeDay(raw, members, statuses)
}

// Columns returns the day as board columns in status display order.
func Columns(day model.DayRecord, statuses model.StatusSet) []Column {
	cols := make([]Column, 0, statuses.Len())
	for _, st := range statuses.All() {
		cols = append(cols, Column{
			Label: string(st),
			Names: slices.Clone(day.Lists[st]),
		})
	}
	return cols
}

// Locate finds name in cols and returns its column and row.
func Locate(cols []Column, name string) (col, row int, ok bool) {
	for c, column := range cols {
		if r := slices.Index(column.Names, name); r >= 0 {
			return c, r, true
		}
	}
	return -1, -1, false
}

// MoveMember removes name from every column and inserts it into the column
// labelled label at pos. A negative or out-of-range pos appends. The input
// columns are not modified.
func MoveMember(cols []Column, name, label string, pos int) ([]Column, error) {
	target := slices.IndexFunc(cols, func(c Column) bool { return c.Label == label })
	if target < 0 {
		return nil, fmt.Errorf("unknown status %q", label)
	}

	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = Column{
			Label: c.Label,
			Names: slices.DeleteFunc(slices.Clone(c.Names), func(n string) bool { return n == name }),
		}
	}

	names := out[target].Names
	if pos < 0 || pos > len(names) {
		pos = len(names)
	}
	out[target].Names = slices.Insert(names, pos, name)
	return out, nil
}

// Shift moves name delta columns left or right, keeping it at the end of the
// target column. Moving past either edge is a no-op.
func Shift(cols []Column, name string, delta int) []Column {
	c, _, ok := Locate(cols, name)
	if !ok {
		return cols
	}
	to := c + delta
	if to < 0 || to >= len(cols) || to == c {
		return cols
	}
	out, err := MoveMember(cols, name, cols[to].Label, -1)
	if err != nil {
		return cols
	}
	return out
}

// Nudge moves name delta rows up or down inside its own column. Moving past
// either end is a no-op.
func Nudge(cols []Column, name string, delta int) []Column {
	c, r, ok := Locate(cols, name)
	if !ok {
		return cols
	}
	to := r + delta
	if to < 0 || to >= len(cols[c].Names) || to == r {
		return cols
	}
	out, err := MoveMember(cols, name, cols[c].Label, to)
	if err != nil {
		return cols
	}
	return out
}
