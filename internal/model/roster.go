package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ClosedKey is the wire key carrying a day's closed flag next to the status
// lists.
const ClosedKey = "__closed__"

// DayRecord holds the assignments of one qualifying date.
type DayRecord struct {
	// Closed marks a holiday: nobody is scheduled and every list is empty.
	Closed bool

	// Lists maps each status to its ordered member names.
	Lists map[Status][]string
}

// NewDayRecord returns an open day with an empty list for every status.
func NewDayRecord(statuses StatusSet) DayRecord {
	day := DayRecord{Lists: make(map[Status][]string, statuses.Len())}
	for _, st := range statuses.All() {
		day.Lists[st] = []string{}
	}
	return day
}

// Names returns the member list for st. The slice is shared with the record.
func (d DayRecord) Names(st Status) []string {
	return d.Lists[st]
}

// Clone returns a deep copy of the day.
func (d DayRecord) Clone() DayRecord {
	out := DayRecord{Closed: d.Closed}
	if d.Lists != nil {
		out.Lists = make(map[Status][]string, len(d.Lists))
		for st, names := range d.Lists {
			cp := make([]string, len(names))
			copy(cp, names)
			out.Lists[st] = cp
		}
	}
	return out
}

// MarshalJSON writes the day as {"<status>": [...], "__closed__": bool}.
func (d DayRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(d.Lists)+1)
	for st, names := range d.Lists {
		if names == nil {
			names = []string{}
		}
		flat[string(st)] = names
	}
	flat[ClosedKey] = d.Closed
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flattened wire form. A missing closed key means
// open; any key other than the closed key must hold a list of strings.
func (d *DayRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("day record: %w", err)
	}

	out := DayRecord{Lists: make(map[Status][]string, len(raw))}
	for key, value := range raw {
		if key == ClosedKey {
			if err := json.Unmarshal(value, &out.Closed); err != nil {
				return fmt.Errorf("day record %s: %w", ClosedKey, err)
			}
			continue
		}
		var names []string
		if err := json.Unmarshal(value, &names); err != nil {
			return fmt.Errorf("day record status %q: %w", key, err)
		}
		if names == nil {
			names = []string{}
		}
		out.Lists[Status(key)] = names
	}

	*d = out
	return nil
}

// MonthRecord maps ISO dates (YYYY-MM-DD) to their day records.
type MonthRecord map[string]DayRecord

// Clone returns a deep copy of the month.
func (m MonthRecord) Clone() MonthRecord {
	if m == nil {
		return nil
	}
	out := make(MonthRecord, len(m))
	for date, day := range m {
		out[date] = day.Clone()
	}
	return out
}

// Months maps month keys (YYYY-MM) to month records.
type Months map[string]MonthRecord

// Clone returns a deep copy of every month.
func (m Months) Clone() Months {
	out := make(Months, len(m))
	for key, month := range m {
		out[key] = month.Clone()
	}
	return out
}

// Keys returns the month keys in ascending order.
func (m Months) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}
