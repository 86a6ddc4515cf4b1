package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSaturdays(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  []string
	}{
		{
			name:  "march 2024 starts on a friday",
			year:  2024,
			month: 3,
			want:  []string{"2024-03-02", "2024-03-09", "2024-03-16", "2024-03-23", "2024-03-30"},
		},
		{
			name:  "february leap year",
			year:  2024,
			month: 2,
			want:  []string{"2024-02-03", "2024-02-10", "2024-02-17", "2024-02-24"},
		},
		{
			name:  "month starting on saturday",
			year:  2025,
			month: 11,
			want:  []string{"2025-11-01", "2025-11-08", "2025-11-15", "2025-11-22", "2025-11-29"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Saturdays.ResolveKeys(tt.year, tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIsAscendingAndOnWeekday(t *testing.T) {
	r := Resolver{Weekday: time.Wednesday}
	for month := 1; month <= 12; month++ {
		dates, err := r.Resolve(2026, month)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(dates), 4)
		for i, d := range dates {
			assert.Equal(t, time.Wednesday, d.Weekday())
			assert.Equal(t, month, int(d.Month()))
			if i > 0 {
				assert.True(t, dates[i-1].Before(d))
			}
		}
	}
}

func TestResolveRejectsInvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := Saturdays.Resolve(2024, month)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMonth), "month %d", month)
	}
}

func TestMonthKeyRoundTrip(t *testing.T) {
	key := MonthKey(2024, 3)
	assert.Equal(t, "2024-03", key)

	y, m, err := ParseMonthKey(key)
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 3, m)

	for _, bad := range []string{"2024-3", "24-03", "2024/03", "2024-13", "abcd-01"} {
		_, _, err := ParseMonthKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestShift(t *testing.T) {
	y, m := Shift(2024, 12, 1)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 1, m)

	y, m = Shift(2024, 1, -1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, 12, m)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", ISO(d))
	assert.Equal(t, time.Saturday, d.Weekday())

	_, err = ParseDate("02/03/2024")
	assert.Error(t, err)
}
