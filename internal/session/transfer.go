package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/saturday-roster/internal/transfer"
)

// Export packages the whole state, independent of the active month.
func (s *Session) Export() transfer.Package {
	return transfer.Export(s.members, s.months, s.considerations, s.now())
}

// ImportResult describes an applied package.
type ImportResult struct {
	Version        int64
	Members        int
	Months         int
	Considerations int
}

// Import validates raw and replaces the whole state with it: members,
// every month and every consideration. Nothing is merged. Invalid packages
// are refused before anything changes. If the store cannot write the new
// state, memory is left as it was and the error is returned.
//
// Imported months are not reconciled here. The active month is cleared so
// callers re-activate, which reconciles it.
func (s *Session) Import(ctx context.Context, raw []byte) (ImportResult, error) {
	pkg, err := transfer.Validate(raw)
	if err != nil {
		s.logger.Warn("import refused", zap.Error(err))
		return ImportResult{}, err
	}
	if pkg.Version != transfer.Version {
		s.logger.Warn("importing package with a different version",
			zap.Int64("version", pkg.Version),
			zap.Int("current", transfer.Version),
		)
	}

	snap := transfer.Apply(pkg)
	if err := s.store.ReplaceAll(ctx, snap); err != nil {
		s.logger.Error("import failed to persist", zap.Error(err))
		return ImportResult{}, fmt.Errorf("replacing stored state: %w", err)
	}

	s.members = snap.Members
	s.months = snap.Months
	s.considerations = snap.Considerations
	s.active, s.year, s.month, s.dates = false, 0, 0, nil

	notes := 0
	for _, items := range snap.Considerations {
		notes += len(items)
	}
	res := ImportResult{
		Version:        pkg.Version,
		Members:        len(snap.Members),
		Months:         len(snap.Months),
		Considerations: notes,
	}
	s.logger.Info("package imported",
		zap.Int64("version", res.Version),
		zap.Int("members", res.Members),
		zap.Int("months", res.Months),
	)
	return res, nil
}
