package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recon-agent/internal/model"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRun(id string, started time.Time) *model.Run {
	return &model.Run{
		ID:               id,
		InputPath:        "data/resolution_data.csv",
		Encoding:         "UTF-8",
		Status:           model.RunStatusCompleted,
		Total:            5,
		Resolved:         3,
		Unresolved:       2,
		AutoClosed:       1,
		NewPatterns:      2,
		ClassifierErrors: 1,
		StartedAt:        started,
		FinishedAt:       started.Add(90 * time.Second),
	}
}

func TestMigrateOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "recon.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
	require.NoError(t, store.Close())

	// Reopening an up-to-date database is a no-op.
	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	assert.Equal(t, path, store.Path())
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestSaveAndGetRun(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

	run := testRun("run-1", started)
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.InputPath, got.InputPath)
	assert.Equal(t, run.Status, got.Status)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 1, got.ClassifierErrors)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 90*time.Second, got.Duration())

	run.Status = model.RunStatusFailed
	run.Error = "failed to persist pattern log"
	require.NoError(t, store.SaveRun(ctx, run))

	got, err = store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "failed to persist pattern log", got.Error)
}

func TestSaveRunWithoutFinishTime(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	run := testRun("run-open", time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	run.FinishedAt = time.Time{}
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-open")
	require.NoError(t, err)
	assert.True(t, got.FinishedAt.IsZero())
	assert.Zero(t, got.Duration())
}

func TestGetRunNotFound(t *testing.T) {
	store := createTestStorage(t)
	_, err := store.GetRun(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveRunValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	started := time.Now()

	tests := []struct {
		run  *model.Run
		name string
	}{
		{name: "nil run", run: nil},
		{name: "missing id", run: &model.Run{InputPath: "x", Status: model.RunStatusCompleted, StartedAt: started}},
		{name: "missing input", run: &model.Run{ID: "r", Status: model.RunStatusCompleted, StartedAt: started}},
		{name: "bad status", run: &model.Run{ID: "r", InputPath: "x", Status: "PAUSED", StartedAt: started}},
		{name: "no start", run: &model.Run{ID: "r", InputPath: "x", Status: model.RunStatusCompleted}},
		{name: "negative count", run: &model.Run{ID: "r", InputPath: "x", Status: model.RunStatusCompleted, StartedAt: started, Total: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.SaveRun(ctx, tt.run))
		})
	}
}

func TestArchives(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	at := time.Date(2024, 11, 5, 14, 3, 9, 0, time.UTC)

	archive := &model.Archive{
		ID:          "arc-1",
		SourcePath:  "data/recon_data_processed.csv",
		Destination: "processed_data/20241105140309_recon_data_processed.csv",
		Renamed:     true,
		ArchivedAt:  at,
	}
	require.NoError(t, store.SaveArchive(ctx, archive))

	archive.Delivered = true
	require.NoError(t, store.SaveArchive(ctx, archive))

	got, err := store.ListArchives(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Renamed)
	assert.True(t, got[0].Delivered)
	assert.True(t, at.Equal(got[0].ArchivedAt))

	assert.ErrorIs(t, store.SaveArchive(ctx, &model.Archive{ID: "x"}), ErrInvalidArchive)
}
