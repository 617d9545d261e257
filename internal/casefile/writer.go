package casefile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Veraticus/recon-agent/internal/model"
)

// Output file names inside the partition directories.
const (
	ResolvedFileName   = "resolved_cases.csv"
	UnresolvedFileName = "unresolved_cases.csv"
)

// Output headers.
var (
	ResolvedHeader   = []string{"Transaction ID", "Amount", "Comments", "Pattern", "Auto Closed"}
	UnresolvedHeader = []string{"Transaction ID", "Amount", "Comments", "Summary", "Next Steps"}
)

// FileSink writes each output partition to its own CSV file.
type FileSink struct {
	ResolvedPath   string
	UnresolvedPath string
}

// NewFileSink creates a sink writing into the given partition directories.
func NewFileSink(resolvedDir, unresolvedDir string) *FileSink {
	return &FileSink{
		ResolvedPath:   filepath.Join(resolvedDir, ResolvedFileName),
		UnresolvedPath: filepath.Join(unresolvedDir, UnresolvedFileName),
	}
}

// WriteResolved replaces the resolved partition. With no rows, no file is left behind.
func (s *FileSink) WriteResolved(_ context.Context, rows []model.ResolvedCase) error {
	if len(rows) == 0 {
		return removeStale(s.ResolvedPath)
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.TransactionID, r.Amount, r.Comments, r.Pattern, r.AutoClosedLabel()})
	}
	return WriteCSV(s.ResolvedPath, ResolvedHeader, records)
}

// WriteUnresolved replaces the unresolved partition. With no rows, no file is left behind.
func (s *FileSink) WriteUnresolved(_ context.Context, rows []model.UnresolvedCase) error {
	if len(rows) == 0 {
		return removeStale(s.UnresolvedPath)
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.TransactionID, r.Amount, r.Comments, r.Summary, r.NextSteps})
	}
	return WriteCSV(s.UnresolvedPath, UnresolvedHeader, records)
}

// WriteCSV atomically replaces path with a header row followed by records.
func WriteCSV(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Chmod(tmpName, 0640); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale output %s: %w", path, err)
	}
	return nil
}
