package archive

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recon-agent/internal/common"
)

func fixedClock() time.Time {
	return time.Date(2024, 11, 5, 14, 3, 9, 0, time.UTC)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data", "recon_data_processed.csv")
	writeFile(t, src, "first")

	a := New(filepath.Join(dir, "processed_data"), WithClock(fixedClock))
	got, err := a.Move(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "processed_data", "recon_data_processed.csv"), got.Destination)
	assert.False(t, got.Renamed)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, fixedClock(), got.ArchivedAt)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(got.Destination)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestMoveCollisionPrefixesTimestamp(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "processed_data")
	writeFile(t, filepath.Join(folder, "report.csv"), "old")
	src := filepath.Join(dir, "report.csv")
	writeFile(t, src, "new")

	got, err := New(folder, WithClock(fixedClock)).Move(src)
	require.NoError(t, err)

	assert.True(t, got.Renamed)
	assert.Equal(t, filepath.Join(folder, "20241105140309_report.csv"), got.Destination)

	old, err := os.ReadFile(filepath.Join(folder, "report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old), "existing files are never overwritten")
}

func TestMoveMissingSource(t *testing.T) {
	_, err := New(t.TempDir()).Move(filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorIs(t, err, common.ErrInputNotFound)
}

func TestMoveFallsBackToCopyAcrossDevices(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.csv")
	writeFile(t, src, "payload")

	a := New(filepath.Join(dir, "out"), WithClock(fixedClock))
	a.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	got, err := a.Move(src)
	require.NoError(t, err)

	data, err := os.ReadFile(got.Destination)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}
