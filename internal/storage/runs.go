package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/recon-agent/internal/model"
)

const runColumns = `id, input_path, encoding, status, error, total, resolved, unresolved,
	auto_closed, new_patterns, classifier_errors, started_at, finished_at`

// SaveRun inserts the run or replaces an earlier entry with the same ID.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	var finished sql.NullTime
	if !run.FinishedAt.IsZero() {
		finished = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			input_path = excluded.input_path,
			encoding = excluded.encoding,
			status = excluded.status,
			error = excluded.error,
			total = excluded.total,
			resolved = excluded.resolved,
			unresolved = excluded.unresolved,
			auto_closed = excluded.auto_closed,
			new_patterns = excluded.new_patterns,
			classifier_errors = excluded.classifier_errors,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at`,
		run.ID, run.InputPath, run.Encoding, string(run.Status), run.Error,
		run.Total, run.Resolved, run.Unresolved, run.AutoClosed, run.NewPatterns, run.ClassifierErrors,
		run.StartedAt.UTC(), finished,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun returns the run with id, or ErrNotFound.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less returns all runs.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var (
		run      model.Run
		status   string
		finished sql.NullTime
	)
	err := row.Scan(&run.ID, &run.InputPath, &run.Encoding, &status, &run.Error,
		&run.Total, &run.Resolved, &run.Unresolved, &run.AutoClosed, &run.NewPatterns, &run.ClassifierErrors,
		&run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	run.StartedAt = run.StartedAt.UTC()
	if finished.Valid {
		run.FinishedAt = finished.Time.UTC()
	}
	return &run, nil
}
