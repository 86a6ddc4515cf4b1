package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Consideration is a free-text note attached to a month.
type Consideration struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"created_at"`
}

// ConsiderationBook maps month keys (YYYY-MM) to their notes, in creation
// order.
type ConsiderationBook map[string][]Consideration

// Clone returns a deep copy of the book.
func (b ConsiderationBook) Clone() ConsiderationBook {
	out := make(ConsiderationBook, len(b))
	for key, items := range b {
		cp := make([]Consideration, len(items))
		copy(cp, items)
		out[key] = cp
	}
	return out
}

// timestampLayout is the second-precision local form written to documents.
const timestampLayout = "2006-01-02T15:04:05"

// timestampLayouts are accepted when reading documents and packages.
var timestampLayouts = []string{
	time.RFC3339Nano,
	timestampLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp is a local wall-clock time serialized without a zone.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds and drops the monotonic reading.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Round(0).Truncate(time.Second)}
}

// String formats the timestamp the way it is stored.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timestampLayout)
}

// MarshalJSON writes the timestamp as a string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts RFC 3339 or zone-less local timestamps. An empty
// string or null yields the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			*t = Timestamp{Time: parsed}
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognized format", s)
}

// Snapshot is the full persisted state: the unit replaced by an import.
type Snapshot struct {
	Members        []string
	Months         Months
	Considerations ConsiderationBook
}
