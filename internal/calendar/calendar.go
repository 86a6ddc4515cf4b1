// Package calendar resolves the qualifying dates of a month and formats the
// keys the roster documents are indexed by.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidMonth is returned when a month falls outside 1-12.
var ErrInvalidMonth = errors.New("invalid calendar input")

// DateLayout is the ISO form used for day keys.
const DateLayout = "2006-01-02"

// Resolver selects every occurrence of one weekday in a month.
type Resolver struct {
	Weekday time.Weekday
}

// Saturdays is the resolver of the reference deployment.
var Saturdays = Resolver{Weekday: time.Saturday}

// Resolve returns the qualifying dates of year/month in ascending order. The
// result is empty, not an error, when the weekday never occurs.
func (r Resolver) Resolve(year, month int) ([]time.Time, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d not in 1-12", ErrInvalidMonth, month)
	}

	first := Date(year, month, 1)
	offset := (int(r.Weekday) - int(first.Weekday()) + 7) % 7

	var out []time.Time
	for d := first.AddDate(0, 0, offset); int(d.Month()) == month; d = d.AddDate(0, 0, 7) {
		out = append(out, d)
	}
	return out, nil
}

// ResolveKeys is Resolve with the dates formatted as ISO keys.
func (r Resolver) ResolveKeys(year, month int) ([]string, error) {
	dates, err := r.Resolve(year, month)
	if err != nil {
		return nil, err
	}
	return ISOKeys(dates), nil
}

// Date builds a calendar date at noon UTC so formatting to YYYY-MM-DD never
// drifts across zones.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

// ISO formats t as YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format(DateLayout)
}

// ISOKeys formats every date as YYYY-MM-DD.
func ISOKeys(dates []time.Time) []string {
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = ISO(d)
	}
	return keys
}

// ParseDate parses a YYYY-MM-DD key into a noon-UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date(t.Year(), int(t.Month()), t.Day()), nil
}

// MonthKey formats year and month as YYYY-MM.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey splits a YYYY-MM key.
func ParseMonthKey(key string) (year, month int, err error) {
	y, m, ok := strings.Cut(key, "-")
	if !ok || len(y) != 4 || len(m) != 2 {
		return 0, 0, fmt.Errorf("month key %q: want YYYY-MM", key)
	}
	if year, err = strconv.Atoi(y); err != nil {
		return 0, 0, fmt.Errorf("month key %q: %w", key, err)
	}
	if month, err = strconv.Atoi(m); err != nil {
		return 0, 0, fmt.Errorf("month key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month key %q", ErrInvalidMonth, key)
	}
	return year, month, nil
}

// monthNames holds the display names used on printed reports.
var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the report name of month, or its number when out of
// range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}
	return monthNames[month-1]
}

// Shift moves year/month by delta months.
func Shift(year, month, delta int) (int, int) {
	t := Date(year, month, 1).AddDate(0, delta, 0)
	return t.Year(), int(t.Month())
}
