package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/store"
	"github.com/nhle/saturday-roster/tests/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var timestampEqual = cmp.Comparer(func(a, b model.Timestamp) bool {
	return a.Equal(b.Time)
})

func backends(t *testing.T) map[string]store.Store {
	return map[string]store.Store{
		"sqlite": testutil.NewTestStore(t),
		"json":   testutil.NewTestFileStore(t),
	}
}

func sampleMonths() model.Months {
	statuses := model.ReferenceStatusSet()
	open := model.NewDayRecord(statuses)
	open.Lists[model.StatusMorningDesk] = []string{"Bob"}
	open.Lists[model.StatusLab] = []string{"Ana"}
	closed := model.NewDayRecord(statuses)
	closed.Closed = true
	return model.Months{
		"2024-03": {
			"2024-03-02": open,
			"2024-03-09": closed,
		},
	}
}

func sampleNotes() model.ConsiderationBook {
	return model.ConsiderationBook{
		"2024-03": {{
			ID:        "0b8a3f0e-2a43-4b6c-9d7e-3c9a1f3a6b55",
			Text:      "Inventário no laboratório",
			CreatedAt: model.NewTimestamp(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)),
		}},
	}
}

func TestEmptyStoreLoadsEmptyDocuments(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			members, err := s.LoadMembers(ctx)
			require.NoError(t, err)
			assert.Empty(t, members)
			assert.NotNil(t, members)

			months, err := s.LoadMonths(ctx)
			require.NoError(t, err)
			assert.Empty(t, months)

			notes, err := s.LoadConsiderations(ctx)
			require.NoError(t, err)
			assert.Empty(t, notes)
		})
	}
}

func TestDocumentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveMembers(ctx, []string{"Ana", "Bob"}))
			require.NoError(t, s.SaveMonths(ctx, sampleMonths()))
			require.NoError(t, s.SaveConsiderations(ctx, sampleNotes()))

			members, err := s.LoadMembers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Ana", "Bob"}, members)

			months, err := s.LoadMonths(ctx)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(sampleMonths(), months))

			notes, err := s.LoadConsiderations(ctx)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(sampleNotes(), notes, timestampEqual))

			// Saving again overwrites rather than appends.
			require.NoError(t, s.SaveMembers(ctx, []string{"Caio"}))
			members, err = s.LoadMembers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Caio"}, members)
		})
	}
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveMembers(ctx, []string{"Old"}))
			require.NoError(t, s.SaveConsiderations(ctx, sampleNotes()))

			require.NoError(t, s.ReplaceAll(ctx, model.Snapshot{
				Members: []string{"Ana"},
				Months:  sampleMonths(),
			}))

			members, err := s.LoadMembers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Ana"}, members)

			months, err := s.LoadMonths(ctx)
			require.NoError(t, err)
			assert.Len(t, months, 1)

			notes, err := s.LoadConsiderations(ctx)
			require.NoError(t, err)
			assert.Empty(t, notes)
		})
	}
}

func TestReplaceAllHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.ReplaceAll(ctx, model.Snapshot{Members: []string{"Ana"}})
			require.Error(t, err)

			members, err := s.LoadMembers(context.Background())
			require.NoError(t, err)
			assert.Empty(t, members)
		})
	}
}

func TestSQLiteMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)
	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestSQLiteReopenKeepsDocuments(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), store.DatabaseFile)

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveMembers(ctx, []string{"Ana"}))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	members, err := s.LoadMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, members)
}

func TestFileStoreKeepsBackup(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestFileStore(t)

	require.NoError(t, s.SaveMembers(ctx, []string{"Ana"}))
	require.NoError(t, s.SaveMembers(ctx, []string{"Ana", "Bob"}))

	backup, err := os.ReadFile(s.Path(model.DocumentMembers) + store.BackupSuffix)
	require.NoError(t, err)
	assert.Contains(t, string(backup), `"Ana"`)
	assert.NotContains(t, string(backup), `"Bob"`)

	_, err = os.Stat(s.Path(model.DocumentMembers) + store.TmpSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreWritesWireFormat(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestFileStore(t)
	require.NoError(t, s.SaveMonths(ctx, sampleMonths()))

	raw, err := os.ReadFile(s.Path(model.DocumentMonths))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"months"`)
	assert.Contains(t, string(raw), `"__closed__": true`)
	assert.Contains(t, string(raw), `"Laboratório": [`)
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	s := testutil.NewTestFileStore(t)
	require.NoError(t, os.WriteFile(s.Path(model.DocumentMonths), []byte("{not json"), 0o644))

	_, err := s.LoadMonths(context.Background())
	require.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := store.Open(model.DataConfig{Dir: dir, Backend: model.BackendJSON})
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, s)
	require.NoError(t, s.Close())

	s, err = store.Open(model.DataConfig{Dir: dir, Backend: model.BackendSQLite})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = store.Open(model.DataConfig{Dir: dir, Backend: "redis"})
	require.Error(t, err)
}
