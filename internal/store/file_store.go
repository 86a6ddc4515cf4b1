package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nhle/saturday-roster/internal/model"
)

// File layout of the JSON backend.
const (
	FilePermissions = 0o644
	BackupSuffix    = ".backup"
	TmpSuffix       = ".tmp"
)

// FileStore keeps each document in its own JSON file inside one directory.
// Saves go through a temp file and a rename; the previous file is kept
// with BackupSuffix.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing the named document.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Close is a no-op; files are not held open between calls.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s document: %w", name, err)
	}
	return data, nil
}

func (s *FileStore) write(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(name)
	tmp := path + TmpSuffix
	if err := os.WriteFile(tmp, body, FilePermissions); err != nil {
		return fmt.Errorf("writing %s document: %w", name, err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+BackupSuffix); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("backing up %s document: %w", name, err)
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s document: %w", name, err)
	}
	return nil
}

// LoadMembers returns the registered members in registration order.
func (s *FileStore) LoadMembers(ctx context.Context) ([]string, error) {
	body, err := s.read(model.DocumentMembers)
	if err != nil {
		return nil, err
	}
	return decodeMembers(body)
}

// SaveMembers replaces members.json.
func (s *FileStore) SaveMembers(ctx context.Context, members []string) error {
	body, err := encodeMembers(members)
	if err != nil {
		return err
	}
	return s.write(ctx, model.DocumentMembers, body)
}

// LoadMonths returns every stored month.
func (s *FileStore) LoadMonths(ctx context.Context) (model.Months, error) {
	body, err := s.read(model.DocumentMonths)
	if err != nil {
		return nil, err
	}
	return decodeMonths(body)
}

// SaveMonths replaces months.json.
func (s *FileStore) SaveMonths(ctx context.Context, months model.Months) error {
	body, err := encodeMonths(months)
	if err != nil {
		return err
	}
	return s.write(ctx, model.DocumentMonths, body)
}

// LoadConsiderations returns every month's notes.
func (s *FileStore) LoadConsiderations(ctx context.Context) (model.ConsiderationBook, error) {
	body, err := s.read(model.DocumentConsiderations)
	if err != nil {
		return nil, err
	}
	return decodeConsiderations(body)
}

// SaveConsiderations replaces considerations.json.
func (s *FileStore) SaveConsiderations(ctx context.Context, book model.ConsiderationBook) error {
	body, err := encodeConsiderations(book)
	if err != nil {
		return err
	}
	return s.write(ctx, model.DocumentConsiderations, body)
}

// ReplaceAll encodes all three documents before touching disk, then writes
// them one after another. A failure part way leaves the earlier files
// replaced and is returned to the caller.
func (s *FileStore) ReplaceAll(ctx context.Context, snap model.Snapshot) error {
	docs, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	for _, name := range documentOrder {
		if err := s.write(ctx, name, docs[name]); err != nil {
			return fmt.Errorf("replacing documents: %w", err)
		}
	}
	return nil
}
