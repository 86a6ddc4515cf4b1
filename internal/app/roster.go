package app

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/calendar"
	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/roster"
	"github.com/nhle/saturday-roster/internal/session"
	"github.com/nhle/saturday-roster/internal/summary"
)

// guard serializes session access. Bubble Tea runs commands on their own
// goroutines and the session allows one mutation at a time.
type guard struct {
	mu   sync.Mutex
	sess *session.Session
}

// run returns a command that calls fn with the session locked.
func (g *guard) run(fn func(ctx context.Context, s *session.Session) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		g.mu.Lock()
		defer g.mu.Unlock()
		return fn(context.Background(), g.sess)
	}
}

// monthLoadedMsg carries the active month after activation or a change
// that touched several dates.
type monthLoadedMsg struct {
	year, month int
	dates       []time.Time
	days        model.MonthRecord
	members     []string
	notes       []model.Consideration
	status      string
	err         error
}

// dayUpdatedMsg carries one stored day after an edit.
type dayUpdatedMsg struct {
	date string
	day  model.DayRecord
	err  error
}

// statusMsg reports the outcome of an action in the status bar.
type statusMsg struct {
	text string
	err  error
}

// summaryLoadedMsg carries the active month's tally.
type summaryLoadedMsg struct {
	rows []summary.Row
	err  error
}

// snapshotMonth reads the active month out of s.
func snapshotMonth(s *session.Session, err error) monthLoadedMsg {
	msg := monthLoadedMsg{err: err, members: s.Members()}
	year, month, ok := s.Active()
	if !ok {
		return msg
	}
	msg.year, msg.month = year, month
	msg.dates = s.Dates()
	msg.days, _ = s.Month()
	msg.notes, _ = s.Considerations()
	return msg
}

// activate makes year/month active.
func (m *Model) activate(year, month int) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		err := s.Activate(ctx, year, month)
		return snapshotMonth(s, err)
	})
}

// shiftMonth activates the month delta months from the active one.
func (m *Model) shiftMonth(delta int) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		year, month, ok := s.Active()
		if !ok {
			return snapshotMonth(s, session.ErrNoActiveMonth)
		}
		year, month = calendar.Shift(year, month, delta)
		err := s.Activate(ctx, year, month)
		return snapshotMonth(s, err)
	})
}

// editDay ingests board columns for date.
func (m *Model) editDay(date string, cols []roster.Column) tea.Cmd {
	logger := m.logger
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		day, err := s.EditDay(ctx, date, cols)
		if err != nil {
			logger.Warn("edit failed", zap.String("date", date), zap.Error(err))
			// Reload the stored day so the board drops the optimistic move.
			day, _ = s.Day(date)
		}
		return dayUpdatedMsg{date: date, day: day, err: err}
	})
}

// setClosed closes or reopens date.
func (m *Model) setClosed(date string, closed bool) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		err := s.SetClosed(ctx, date, closed)
		day, _ := s.Day(date)
		return dayUpdatedMsg{date: date, day: day, err: err}
	})
}

// addMember registers name.
func (m *Model) addMember(name string) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		res, err := s.AddMember(ctx, name)
		msg := snapshotMonth(s, err)
		switch res {
		case session.Added:
			msg.status = "Member added"
		case session.Duplicate:
			msg.status = "Already registered"
		default:
			msg.status = "Name is blank"
		}
		return msg
	})
}

// removeMember unregisters name.
func (m *Model) removeMember(name string) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		removed, err := s.RemoveMember(ctx, name)
		msg := snapshotMonth(s, err)
		if removed {
			msg.status = "Member removed"
		}
		return msg
	})
}

// addNote stores a consideration on the active month.
func (m *Model) addNote(text string) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		_, ok, err := s.AddConsideration(ctx, text)
		msg := snapshotMonth(s, err)
		if ok {
			msg.status = "Consideration added"
		}
		return msg
	})
}

// removeNote deletes a consideration of the active month.
func (m *Model) removeNote(id string) tea.Cmd {
	return m.guard.run(func(ctx context.Context, s *session.Session) tea.Msg {
		removed, err := s.RemoveConsideration(ctx, id)
		msg := snapshotMonth(s, err)
		if removed {
			msg.status = "Consideration deleted"
		}
		return msg
	})
}

// loadSummary tallies the active month.
func (m *Model) loadSummary() tea.Cmd {
	return m.guard.run(func(_ context.Context, s *session.Session) tea.Msg {
		rows, err := s.Summary()
		return summaryLoadedMsg{rows: rows, err: err}
	})
}
