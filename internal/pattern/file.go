package pattern

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/recon-agent/internal/common"
)

// HeaderColumn is the single column of the pattern log.
const HeaderColumn = "Pattern"

// FileStore keeps patterns in an append-only CSV log.
type FileStore struct {
	logger     *slog.Logger
	appended   Set
	now        func() time.Time
	path       string
	mu         sync.Mutex
	unreadable bool // Load could not parse the log; Commit moves it aside first
}

// NewFileStore creates a store backed by the CSV log at path. The file is created on first commit.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:     path,
		logger:   common.LoggerOrDefault(logger),
		appended: make(Set),
		now:      time.Now,
	}
}

// Path returns the location of the pattern log.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the pattern log. Blank cells are skipped and repeated entries collapse.
func (s *FileStore) Load(_ context.Context) (Set, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("pattern log not found, starting empty", "path", s.path)
			return make(Set), nil
		}
		return nil, fmt.Errorf("failed to open pattern log %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	patterns, err := readLog(f)
	if err != nil {
		s.logger.Error("pattern log unreadable, starting empty; it will be moved aside on the next commit",
			"path", s.path, "error", err)
		s.mu.Lock()
		s.unreadable = true
		s.mu.Unlock()
		return make(Set), nil
	}

	return NewSet(patterns...), nil
}

func readLog(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	col := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == HeaderColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("no %q column in header %v", HeaderColumn, header)
	}

	var patterns []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return patterns, nil
		}
		if err != nil {
			return nil, err
		}
		if col < len(record) {
			if p := Normalize(record[col]); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
}

// Commit appends fresh candidates to the log, writing the header if the log is new or empty.
func (s *FileStore) Commit(_ context.Context, known Set, candidates []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := Fresh(candidates, known, s.appended)
	if len(fresh) == 0 {
		return nil, nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create pattern log directory: %w", err)
		}
	}

	if s.unreadable {
		if err := s.moveAside(); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern log %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat pattern log: %w", err)
	}

	if info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			return nil, fmt.Errorf("failed to read pattern log tail: %w", err)
		}
		if last[0] != '\n' {
			if _, err := f.Write([]byte("\n")); err != nil {
				return nil, fmt.Errorf("failed to terminate last pattern: %w", err)
			}
		}
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write([]string{HeaderColumn}); err != nil {
			return nil, fmt.Errorf("failed to write pattern log header: %w", err)
		}
	}
	for _, p := range fresh {
		if err := w.Write([]string{p}); err != nil {
			return nil, fmt.Errorf("failed to append pattern: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush pattern log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync pattern log: %w", err)
	}

	for _, p := range fresh {
		s.appended[p] = struct{}{}
	}

	s.logger.Info("appended patterns", "path", s.path, "count", len(fresh))
	return fresh, nil
}

// moveAside renames an unreadable log so the next append starts a fresh one.
func (s *FileStore) moveAside() error {
	aside := fmt.Sprintf("%s.unreadable-%s", s.path, s.now().Format("20060102150405"))
	if err := os.Rename(s.path, aside); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to move unreadable pattern log aside: %w", err)
	}
	s.logger.Error("moved unreadable pattern log aside", "path", s.path, "moved_to", aside)
	s.unreadable = false
	return nil
}
