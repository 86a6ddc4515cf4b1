package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/saturday-roster/internal/model"
)

// Store persists the three roster documents. A document that was never
// saved loads as empty; every other failure is returned.
type Store interface {
	// === Members ===

	LoadMembers(ctx context.Context) ([]string, error)
	SaveMembers(ctx context.Context, members []string) error

	// === Months ===

	LoadMonths(ctx context.Context) (model.Months, error)
	SaveMonths(ctx context.Context, months model.Months) error

	// === Considerations ===

	LoadConsiderations(ctx context.Context) (model.ConsiderationBook, error)
	SaveConsiderations(ctx context.Context, book model.ConsiderationBook) error

	// ReplaceAll overwrites all three documents as one unit.
	ReplaceAll(ctx context.Context, snap model.Snapshot) error

	Close() error
}

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "roster.db"

// Open creates the data directory and opens the configured backend.
func Open(cfg model.DataConfig) (Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", cfg.Dir, err)
	}

	switch cfg.Backend {
	case model.BackendSQLite, "":
		return NewSQLiteStore(filepath.Join(cfg.Dir, DatabaseFile))
	case model.BackendJSON:
		return NewFileStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Backend)
	}
}
