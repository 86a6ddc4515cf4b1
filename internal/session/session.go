// Package session holds the application state between commands: the member
// list, every month, the considerations and the active month. Each mutation
// updates memory first and then persists through the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/render"
	"github.com/nhle/saturday-roster/internal/roster"
	"github.com/nhle/saturday-roster/internal/store"
	"github.com/nhle/saturday-roster/internal/summary"
)

var (
	// ErrNoActiveMonth is returned by month-scoped operations before
	// Activate has succeeded.
	ErrNoActiveMonth = errors.New("no active month")

	// ErrDayClosed is returned when editing a closed date.
	ErrDayClosed = errors.New("day is closed")

	// ErrUnknownDate is returned for a date that does not qualify in the
	// active month.
	ErrUnknownDate = errors.New("date is not a qualifying date of the active month")

	// ErrUnknownMember is returned when a named member is not scheduled on
	// the day being edited.
	ErrUnknownMember = errors.New("unknown member")
)

// PersistError reports a save that failed after memory was updated. The
// in-memory state stays consistent; only the stored copy is stale.
type PersistError struct {
	Document string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Document, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Options configures a Session. Zero values fall back to the reference
// deployment.
type Options struct {
	Statuses model.StatusSet
	Resolver *calendar.Resolver
	Logger   *zap.Logger

	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() string
}

// Session is the application state object. It is not safe for concurrent
// use; the application performs one mutation at a time.
type Session struct {
	store    store.Store
	logger   *zap.Logger
	statuses model.StatusSet
	resolver calendar.Resolver
	now      func() time.Time
	newID    func() string

	members        []string
	months         model.Months
	considerations model.ConsiderationBook

	active bool
	year   int
	month  int
	dates  []time.Time
}

// Open loads the three documents from st.
func Open(ctx context.Context, st store.Store, opts Options) (*Session, error) {
	s := &Session{
		store:    st,
		logger:   opts.Logger,
		statuses: opts.Statuses,
		resolver: calendar.Saturdays,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if opts.Resolver != nil {
		s.resolver = *opts.Resolver
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.statuses.Len() == 0 {
		s.statuses = model.ReferenceStatusSet()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}

	members, err := st.LoadMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading members: %w", err)
	}
	months, err := st.LoadMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading months: %w", err)
	}
	notes, err := st.LoadConsiderations(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading considerations: %w", err)
	}

	s.members = normalizeMembers(members)
	s.months = months
	s.considerations = notes

	s.logger.Debug("session opened",
		zap.Int("members", len(s.members)),
		zap.Int("months", len(s.months)),
	)
	return s, nil
}

// normalizeMembers trims names and drops blanks and repeats, keeping the
// first occurrence.
func normalizeMembers(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// persist runs save and converts a failure into a logged *PersistError.
func (s *Session) persist(document string, save func() error) error {
	if err := save(); err != nil {
		s.logger.Error("save failed", zap.String("document", document), zap.Error(err))
		return &PersistError{Document: document, Err: err}
	}
	return nil
}

func (s *Session) saveMembers(ctx context.Context) error {
	return s.persist(model.DocumentMembers, func() error {
		return s.store.SaveMembers(ctx, s.members)
	})
}

func (s *Session) saveMonths(ctx context.Context) error {
	return s.persist(model.DocumentMonths, func() error {
		return s.store.SaveMonths(ctx, s.months)
	})
}

func (s *Session) saveConsiderations(ctx context.Context) error {
	return s.persist(model.DocumentConsiderations, func() error {
		return s.store.SaveConsiderations(ctx, s.considerations)
	})
}

// Statuses returns the status enumeration.
func (s *Session) Statuses() model.StatusSet { return s.statuses }

// Members returns a copy of the member list in registration order.
func (s *Session) Members() []string { return slices.Clone(s.members) }

// Active reports the active month.
func (s *Session) Active() (year, month int, ok bool) {
	return s.year, s.month, s.active
}

// MonthKey returns the YYYY-MM key of the active month.
func (s *Session) MonthKey() (string, error) {
	if !s.active {
		return "", ErrNoActiveMonth
	}
	return calendar.MonthKey(s.year, s.month), nil
}

// Dates returns the qualifying dates of the active month.
func (s *Session) Dates() []time.Time { return slices.Clone(s.dates) }

// Month returns a copy of the active month's record.
func (s *Session) Month() (model.MonthRecord, error) {
	key, err := s.MonthKey()
	if err != nil {
		return nil, err
	}
	return s.months[key].Clone(), nil
}

// Day returns a copy of one day of the active month.
func (s *Session) Day(date string) (model.DayRecord, error) {
	key, err := s.MonthKey()
	if err != nil {
		return model.DayRecord{}, err
	}
	day, ok := s.months[key][date]
	if !ok {
		return model.DayRecord{}, fmt.Errorf("%w: %s", ErrUnknownDate, date)
	}
	return day.Clone(), nil
}

// MonthKeys returns every stored month key in ascending order.
func (s *Session) MonthKeys() []string { return s.months.Keys() }

// Activate makes year/month the active month, creating its record on first
// use and reconciling it against the members and the calendar. Invalid
// input leaves the state untouched.
func (s *Session) Activate(ctx context.Context, year, month int) error {
	dates, err := s.resolver.Resolve(year, month)
	if err != nil {
		return fmt.Errorf("activating %d-%02d: %w", year, month, err)
	}

	key := calendar.MonthKey(year, month)
	s.months[key] = roster.ReconcileMonth(s.months[key], dates, s.members, s.statuses)
	s.active, s.year, s.month, s.dates = true, year, month, dates

	s.logger.Debug("month activated", zap.String("month", key), zap.Int("dates", len(dates)))
	return s.saveMonths(ctx)
}

// reconcileActive re-runs reconciliation on the active month, if any.
func (s *Session) reconcileActive() {
	if !s.active {
		return
	}
	key := calendar.MonthKey(s.year, s.month)
	s.months[key] = roster.ReconcileMonth(s.months[key], s.dates, s.members, s.statuses)
}

// AddResult tells why AddMember did or did not register a name.
type AddResult int

const (
	Added AddResult = iota
	Blank
	Duplicate
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case Blank:
		return "blank"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// AddMember registers a trimmed name. Blank and already registered names are
// ignored and reported through the result. The active month picks up the
// new member on the default status.
func (s *Session) AddMember(ctx context.Context, name string) (AddResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Blank, nil
	}
	if slices.Contains(s.members, name) {
		return Duplicate, nil
	}

	s.members = append(s.members, name)
	s.reconcileActive()
	s.logger.Info("member added", zap.String("member", name))

	return Added, errors.Join(s.saveMembers(ctx), s.saveMonthsIfActive(ctx))
}

// RemoveMember unregisters name and strips it from the active month. Other
// months drop it when they are next activated or reconciled.
func (s *Session) RemoveMember(ctx context.Context, name string) (bool, error) {
	i := slices.Index(s.members, name)
	if i < 0 {
		return false, nil
	}

	s.members = slices.Delete(s.members, i, i+1)
	s.reconcileActive()
	s.logger.Info("member removed", zap.String("member", name))

	return true, errors.Join(s.saveMembers(ctx), s.saveMonthsIfActive(ctx))
}

func (s *Session) saveMonthsIfActive(ctx context.Context) error {
	if !s.active {
		return nil
	}
	return s.saveMonths(ctx)
}

// activeDay resolves date within the active month.
func (s *Session) activeDay(date string) (string, model.DayRecord, error) {
	key, err := s.MonthKey()
	if err != nil {
		return "", model.DayRecord{}, err
	}
	day, ok := s.months[key][date]
	if !ok {
		return "", model.DayRecord{}, fmt.Errorf("%w: %s", ErrUnknownDate, date)
	}
	return key, day, nil
}

// SetClosed marks a date of the active month closed or open. Reopening puts
// every member back on the default status.
func (s *Session) SetClosed(ctx context.Context, date string, closed bool) error {
	key, day, err := s.activeDay(date)
	if err != nil {
		return err
	}

	s.months[key][date] = roster.SetClosed(day, closed, s.members, s.statuses)
	s.logger.Info("day closed flag set", zap.String("date", date), zap.Bool("closed", closed))
	return s.saveMonths(ctx)
}

// EditDay ingests raw board columns for an open date of the active month
// and returns the stored result.
func (s *Session) EditDay(ctx context.Context, date string, cols []roster.Column) (model.DayRecord, error) {
	key, day, err := s.activeDay(date)
	if err != nil {
		return model.DayRecord{}, err
	}
	if day.Closed {
		return model.DayRecord{}, fmt.Errorf("editing %s: %w", date, ErrDayClosed)
	}

	edited := roster.ApplyEdit(cols, s.members, s.statuses)
	s.months[key][date] = edited
	s.logger.Debug("day edited", zap.String("date", date))
	return edited.Clone(), s.saveMonths(ctx)
}

// Move places member on the status labelled label at pos (negative pos
// appends) and ingests the result like any other edit.
func (s *Session) Move(ctx context.Context, date, member, label string, pos int) (model.DayRecord, error) {
	_, day, err := s.activeDay(date)
	if err != nil {
		return model.DayRecord{}, err
	}

	if day.Closed {
		return model.DayRecord{}, fmt.Errorf("editing %s: %w", date, ErrDayClosed)
	}

	cols := roster.Columns(day, s.statuses)
	if _, _, ok := roster.Locate(cols, member); !ok {
		return model.DayRecord{}, fmt.Errorf("%w: %s", ErrUnknownMember, member)
	}
	moved, err := roster.MoveMember(cols, member, label, pos)
	if err != nil {
		return model.DayRecord{}, err
	}
	return s.EditDay(ctx, date, moved)
}

// Summary tallies the active month.
func (s *Session) Summary() ([]summary.Row, error) {
	key, err := s.MonthKey()
	if err != nil {
		return nil, err
	}
	return summary.Summarize(s.months[key], s.dates, s.members, s.statuses), nil
}

// Report gathers what the renderers need for the active month.
func (s *Session) Report() (render.Report, error) {
	key, err := s.MonthKey()
	if err != nil {
		return render.Report{}, err
	}
	return render.Report{
		Year:           s.year,
		Month:          s.month,
		Statuses:       s.statuses,
		Dates:          s.Dates(),
		Days:           s.months[key].Clone(),
		Members:        s.Members(),
		Rows:           summary.Summarize(s.months[key], s.dates, s.members, s.statuses),
		Considerations: slices.Clone(s.considerations[key]),
	}, nil
}

// ReconcileAll reconciles every stored month whose key parses, against the
// current members and each month's own calendar. It returns how many months
// were reconciled.
func (s *Session) ReconcileAll(ctx context.Context) (int, error) {
	n := 0
	for _, key := range s.months.Keys() {
		year, month, err := calendar.ParseMonthKey(key)
		if err != nil {
			s.logger.Warn("skipping month with malformed key", zap.String("month", key), zap.Error(err))
			continue
		}
		dates, err := s.resolver.Resolve(year, month)
		if err != nil {
			continue
		}
		s.months[key] = roster.ReconcileMonth(s.months[key], dates, s.members, s.statuses)
		n++
	}
	s.logger.Info("months reconciled", zap.Int("count", n))
	return n, s.saveMonths(ctx)
}
