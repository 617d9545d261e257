// Package storage keeps the ledger of resolution runs and archived uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/recon-agent/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRun     = errors.New("invalid run")
	ErrInvalidArchive = errors.New("invalid archive")
	ErrNotFound       = errors.New("not found")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidRun)
	}
	if strings.TrimSpace(run.InputPath) == "" {
		return fmt.Errorf("%w: input path cannot be empty", ErrInvalidRun)
	}
	switch run.Status {
	case model.RunStatusCompleted, model.RunStatusFailed:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRun, run.Status)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidRun)
	}
	if run.Total < 0 || run.Resolved < 0 || run.Unresolved < 0 {
		return fmt.Errorf("%w: counts cannot be negative", ErrInvalidRun)
	}
	return nil
}

func validateArchive(archive *model.Archive) error {
	if archive == nil {
		return fmt.Errorf("%w: archive", ErrNilParameter)
	}
	if strings.TrimSpace(archive.ID) == "" {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidArchive)
	}
	if strings.TrimSpace(archive.Destination) == "" {
		return fmt.Errorf("%w: destination cannot be empty", ErrInvalidArchive)
	}
	if archive.ArchivedAt.IsZero() {
		return fmt.Errorf("%w: archive time is required", ErrInvalidArchive)
	}
	return nil
}
