package roster

import (
	"maps"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
)

var statuses = model.ReferenceStatusSet()

func march2024(t *testing.T) []time.Time {
	t.Helper()
	dates, err := calendar.Saturdays.Resolve(2024, 3)
	require.NoError(t, err)
	return dates
}

// assertPartition checks that an open day holds every member exactly once
// and nothing else, and that a closed day is empty.
func assertPartition(t *testing.T, day model.DayRecord, members []string) {
	t.Helper()
	var all []string
	for _, st := range statuses.All() {
		all = append(all, day.Lists[st]...)
	}
	for st := range day.Lists {
		assert.NotEqual(t, -1, statuses.Index(st), "foreign status %q", st)
	}
	if day.Closed {
		assert.Empty(t, all)
		return
	}
	assert.ElementsMatch(t, members, all)
}

func TestExampleScenario(t *testing.T) {
	members := []string{"Ana", "Bob"}
	dates := []time.Time{calendar.Date(2024, 3, 2)}

	month := ReconcileMonth(nil, dates, members, statuses)
	day := month["2024-03-02"]
	assert.Equal(t, []string{"Ana", "Bob"}, day.Lists[model.StatusMorningDesk])

	cols, err := MoveMember(Columns(day, statuses), "Ana", string(model.StatusLab), -1)
	require.NoError(t, err)
	month["2024-03-02"] = ApplyEdit(cols, members, statuses)

	day = month["2024-03-02"]
	assert.Equal(t, []string{"Bob"}, day.Lists[model.StatusMorningDesk])
	assert.Equal(t, []string{"Ana"}, day.Lists[model.StatusLab])

	month = ReconcileMonth(month, dates, []string{"Ana"}, statuses)
	day = month["2024-03-02"]
	assert.Empty(t, day.Lists[model.StatusMorningDesk])
	assert.Equal(t, []string{"Ana"}, day.Lists[model.StatusLab])
}

func TestReconcileMonthDropsAndSeedsDates(t *testing.T) {
	members := []string{"Ana", "Bob"}
	stale := model.MonthRecord{
		"2024-03-01": SeedDay(members, statuses),
		"2024-03-02": SeedDay(members, statuses),
	}

	got := ReconcileMonth(stale, march2024(t), members, statuses)

	assert.NotContains(t, got, "2024-03-01")
	keys := slices.Sorted(maps.Keys(got))
	assert.Equal(t, []string{"2024-03-02", "2024-03-09", "2024-03-16", "2024-03-23", "2024-03-30"}, keys)
	for _, day := range got {
		assert.False(t, day.Closed)
		assert.Equal(t, members, day.Lists[model.StatusMorningDesk])
	}
}

func TestReconcileMonthDoesNotMutateInput(t *testing.T) {
	members := []string{"Ana"}
	day := model.NewDayRecord(statuses)
	day.Lists[model.StatusLab] = []string{"Ana", "Ghost"}
	in := model.MonthRecord{"2024-03-02": day}
	before := in.Clone()

	_ = ReconcileMonth(in, march2024(t), members, statuses)

	assert.Empty(t, cmp.Diff(before, in))
}

func TestSanitizeDay(t *testing.T) {
	members := []string{"Ana", "Bob", "Caio"}

	t.Run("stale names dropped and missing appended in member order", func(t *testing.T) {
		day := model.NewDayRecord(statuses)
		day.Lists[model.StatusMorningDesk] = []string{"Ghost", "Bob"}
		day.Lists[model.StatusLab] = []string{"Caio"}

		got := SanitizeDay(day, members, statuses)
		assert.Equal(t, []string{"Bob", "Ana"}, got.Lists[model.StatusMorningDesk])
		assert.Equal(t, []string{"Caio"}, got.Lists[model.StatusLab])
	})

	t.Run("first occurrence in status order wins", func(t *testing.T) {
		day := model.NewDayRecord(statuses)
		day.Lists[model.StatusVacation] = []string{"Ana"}
		day.Lists[model.StatusLab] = []string{"Ana", "Ana"}

		got := SanitizeDay(day, members, statuses)
		assert.Equal(t, []string{"Ana"}, got.Lists[model.StatusLab])
		assert.Empty(t, got.Lists[model.StatusVacation])
		assertPartition(t, got, members)
	})

	t.Run("unknown labels discarded", func(t *testing.T) {
		day := model.DayRecord{Lists: map[model.Status][]string{
			"Plantão": {"Ana"},
		}}
		got := SanitizeDay(day, members, statuses)
		assert.NotContains(t, got.Lists, model.Status("Plantão"))
		assert.Equal(t, members, got.Lists[model.StatusMorningDesk])
	})

	t.Run("closed day emptied", func(t *testing.T) {
		day := model.NewDayRecord(statuses)
		day.Closed = true
		day.Lists[model.StatusLab] = []string{"Ana", "Ghost"}

		got := SanitizeDay(day, members, statuses)
		assert.True(t, got.Closed)
		assertPartition(t, got, members)
	})
}

func TestSetClosed(t *testing.T) {
	members := []string{"Ana", "Bob"}
	day := SeedDay(members, statuses)
	cols, err := MoveMember(Columns(day, statuses), "Ana", string(model.StatusVacation), -1)
	require.NoError(t, err)
	day = ApplyEdit(cols, members, statuses)

	closed := SetClosed(day, true, members, statuses)
	assert.True(t, closed.Closed)
	assertPartition(t, closed, members)

	reopened := SetClosed(closed, false, members, statuses)
	assert.False(t, reopened.Closed)
	assert.Equal(t, members, reopened.Lists[model.StatusMorningDesk])
	assert.Empty(t, reopened.Lists[model.StatusVacation])

	same := SetClosed(day, false, members, statuses)
	assert.Equal(t, []string{"Ana"}, same.Lists[model.StatusVacation])
}

func TestApplyEdit(t *testing.T) {
	members := []string{"Ana", "Bob", "Caio"}

	got := ApplyEdit([]Column{
		{Label: string(model.StatusLab), Names: []string{"Bob", "  ", ""}},
		{Label: "laboratório", Names: []string{"Caio"}},
		{Label: string(model.StatusVacation), Names: []string{"Ana", "Stranger"}},
	}, members, statuses)

	assert.False(t, got.Closed)
	assert.Equal(t, []string{"Bob"}, got.Lists[model.StatusLab])
	assert.Equal(t, []string{"Ana"}, got.Lists[model.StatusVacation])
	assert.Equal(t, []string{"Caio"}, got.Lists[model.StatusMorningDesk])
	assertPartition(t, got, members)
}

func TestApplyEditLaterDuplicateLabelWins(t *testing.T) {
	members := []string{"Ana"}
	got := ApplyEdit([]Column{
		{Label: string(model.StatusLab), Names: []string{"Ana"}},
		{Label: string(model.StatusLab), Names: nil},
	}, members, statuses)

	assert.Empty(t, got.Lists[model.StatusLab])
	assert.Equal(t, []string{"Ana"}, got.Lists[model.StatusMorningDesk])
}

func TestMoveHelpers(t *testing.T) {
	members := []string{"Ana", "Bob", "Caio"}
	cols := Columns(SeedDay(members, statuses), statuses)

	_, err := MoveMember(cols, "Ana", "Nope", 0)
	require.Error(t, err)

	down := Nudge(cols, "Ana", 1)
	assert.Equal(t, []string{"Bob", "Ana", "Caio"}, down[0].Names)
	assert.Equal(t, []string{"Ana", "Bob", "Caio"}, cols[0].Names, "input untouched")

	assert.Equal(t, cols, Nudge(cols, "Ana", -1))
	assert.Equal(t, cols, Shift(cols, "Ana", -1))

	right := Shift(cols, "Caio", 2)
	assert.Equal(t, []string{"Ana", "Bob"}, right[0].Names)
	assert.Equal(t, []string{"Caio"}, right[2].Names)

	c, r, ok := Locate(right, "Caio")
	require.True(t, ok)
	assert.Equal(t, 2, c)
	assert.Equal(t, 0, r)
}

// randomMonth builds an arbitrary, usually inconsistent month out of a pool
// of names that overlaps the member list.
func randomMonth(rng *rand.Rand, dates []time.Time, pool []string) model.MonthRecord {
	labels := append(statuses.All(), "Plantão")
	month := model.MonthRecord{}
	for _, d := range dates {
		if rng.IntN(4) == 0 {
			continue
		}
		day := model.DayRecord{Closed: rng.IntN(5) == 0, Lists: map[model.Status][]string{}}
		for range rng.IntN(12) {
			st := labels[rng.IntN(len(labels))]
			day.Lists[st] = append(day.Lists[st], pool[rng.IntN(len(pool))])
		}
		month[calendar.ISO(d)] = day
	}
	month["2024-03-04"] = model.DayRecord{Lists: map[model.Status][]string{statuses.Default(): {"Ana"}}}
	return month
}

func TestReconcileProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pool := []string{"Ana", "Bob", "Caio", "Duda", "Ghost", "Eve"}
	dates := march2024(t)

	for i := range 200 {
		members := slices.Clone(pool[:1+rng.IntN(4)])
		rng.Shuffle(len(members), func(a, b int) { members[a], members[b] = members[b], members[a] })
		month := randomMonth(rng, dates, pool)

		once := ReconcileMonth(month, dates, members, statuses)
		require.Len(t, once, len(dates), "iteration %d", i)
		for _, day := range once {
			assertPartition(t, day, members)
		}

		twice := ReconcileMonth(once, dates, members, statuses)
		require.Empty(t, cmp.Diff(once, twice, cmpopts.EquateEmpty()), "iteration %d not idempotent", i)

		removed := members[rng.IntN(len(members))]
		rest := slices.DeleteFunc(slices.Clone(members), func(m string) bool { return m == removed })
		cascaded := ReconcileMonth(once, dates, rest, statuses)
		for _, day := range cascaded {
			for _, names := range day.Lists {
				assert.NotContains(t, names, removed)
			}
		}
	}
}
