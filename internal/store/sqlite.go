package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/saturday-roster/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
// Each document is one row of the documents table.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: ":memory:" databases are per connection, and the
	// application never writes concurrently.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// getDocument returns the stored body of name, or nil if it was never saved.
func (s *SQLiteStore) getDocument(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := s.db.GetContext(ctx, &body, "SELECT body FROM documents WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s document: %w", name, err)
	}
	return []byte(body), nil
}

// putDocument inserts or replaces one document row using ext, which is
// either the database or an open transaction.
func putDocument(ctx context.Context, ext sqlx.ExecerContext, name string, body []byte) error {
	_, err := ext.ExecContext(ctx,
		"INSERT OR REPLACE INTO documents (name, body, updated_at) VALUES (?, ?, ?)",
		name, string(body), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving %s document: %w", name, err)
	}
	return nil
}

// LoadMembers returns the registered members in registration order.
func (s *SQLiteStore) LoadMembers(ctx context.Context) ([]string, error) {
	body, err := s.getDocument(ctx, model.DocumentMembers)
	if err != nil {
		return nil, err
	}
	return decodeMembers(body)
}

// SaveMembers replaces the members document.
func (s *SQLiteStore) SaveMembers(ctx context.Context, members []string) error {
	body, err := encodeMembers(members)
	if err != nil {
		return err
	}
	return putDocument(ctx, s.db, model.DocumentMembers, body)
}

// LoadMonths returns every stored month.
func (s *SQLiteStore) LoadMonths(ctx context.Context) (model.Months, error) {
	body, err := s.getDocument(ctx, model.DocumentMonths)
	if err != nil {
		return nil, err
	}
	return decodeMonths(body)
}

// SaveMonths replaces the months document.
func (s *SQLiteStore) SaveMonths(ctx context.Context, months model.Months) error {
	body, err := encodeMonths(months)
	if err != nil {
		return err
	}
	return putDocument(ctx, s.db, model.DocumentMonths, body)
}

// LoadConsiderations returns every month's notes.
func (s *SQLiteStore) LoadConsiderations(ctx context.Context) (model.ConsiderationBook, error) {
	body, err := s.getDocument(ctx, model.DocumentConsiderations)
	if err != nil {
		return nil, err
	}
	return decodeConsiderations(body)
}

// SaveConsiderations replaces the considerations document.
func (s *SQLiteStore) SaveConsiderations(ctx context.Context, book model.ConsiderationBook) error {
	body, err := encodeConsiderations(book)
	if err != nil {
		return err
	}
	return putDocument(ctx, s.db, model.DocumentConsiderations, body)
}

// ReplaceAll writes the three documents in a single transaction.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, snap model.Snapshot) error {
	docs, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range documentOrder {
		if err := putDocument(ctx, tx, name, docs[name]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}
