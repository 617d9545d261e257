// Package archive moves processed files into the upload folder without overwriting earlier ones.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/model"
)

// TimestampLayout prefixes a file name that already exists in the folder.
const TimestampLayout = "20060102150405"

// Archiver moves files into a single folder.
type Archiver struct {
	now    func() time.Time
	rename func(oldpath, newpath string) error
	logger *slog.Logger
	folder string
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithClock sets the clock used for collision prefixes and archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) { a.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) { a.logger = logger }
}

// New creates an Archiver for folder.
func New(folder string, opts ...Option) *Archiver {
	a := &Archiver{
		folder: folder,
		now:    time.Now,
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = common.LoggerOrDefault(a.logger)
	return a
}

// Folder returns the destination folder.
func (a *Archiver) Folder() string {
	return a.folder
}

// Move places the file at path into the folder, creating the folder when needed.
// When the name is taken the file is stored as <timestamp>_<name>.
func (a *Archiver) Move(path string) (model.Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Archive{}, fmt.Errorf("%w: %s", common.ErrInputNotFound, path)
		}
		return model.Archive{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return model.Archive{}, fmt.Errorf("%s is a directory", path)
	}

	if err := os.MkdirAll(a.folder, 0750); err != nil {
		return model.Archive{}, fmt.Errorf("failed to create upload folder: %w", err)
	}

	now := a.now()
	name := filepath.Base(path)
	destination := filepath.Join(a.folder, name)
	renamed := false
	if _, err := os.Stat(destination); err == nil {
		destination = filepath.Join(a.folder, now.Format(TimestampLayout)+"_"+name)
		renamed = true
	}

	if err := a.move(path, destination); err != nil {
		return model.Archive{}, err
	}

	a.logger.Info("file uploaded", "source", path, "destination", destination, "renamed", renamed)
	return model.Archive{
		ID:          uuid.NewString(),
		SourcePath:  path,
		Destination: destination,
		Renamed:     renamed,
		ArchivedAt:  now,
	}, nil
}

func (a *Archiver) move(src, dst string) error {
	err := a.rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}

	a.logger.Debug("rename crossed devices, copying instead", "source", src)
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Sync()
}
