package session

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/model"
)

// Considerations returns the active month's notes in creation order.
func (s *Session) Considerations() ([]model.Consideration, error) {
	key, err := s.MonthKey()
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.considerations[key]), nil
}

// AddConsideration stores a trimmed note on the active month. A blank text
// is ignored and reported through ok.
func (s *Session) AddConsideration(ctx context.Context, text string) (note model.Consideration, ok bool, err error) {
	key, err := s.MonthKey()
	if err != nil {
		return model.Consideration{}, false, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Consideration{}, false, nil
	}

	note = model.Consideration{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: model.NewTimestamp(s.now()),
	}
	s.considerations[key] = append(s.considerations[key], note)
	s.logger.Info("consideration added", zap.String("month", key), zap.String("id", note.ID))
	return note, true, s.saveConsiderations(ctx)
}

// RemoveConsideration deletes the note with id from the active month.
func (s *Session) RemoveConsideration(ctx context.Context, id string) (bool, error) {
	key, err := s.MonthKey()
	if err != nil {
		return false, err
	}
	notes := s.considerations[key]
	i := slices.IndexFunc(notes, func(c model.Consideration) bool { return c.ID == id })
	if i < 0 {
		return false, nil
	}

	s.considerations[key] = slices.Delete(slices.Clone(notes), i, i+1)
	s.logger.Info("consideration removed", zap.String("month", key), zap.String("id", id))
	return true, s.saveConsiderations(ctx)
}
