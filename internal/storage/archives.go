package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/recon-agent/internal/model"
)

// SaveArchive records an archived upload.
func (s *SQLiteStorage) SaveArchive(ctx context.Context, archive *model.Archive) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateArchive(archive); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archives (id, source_path, destination, renamed, delivered, archived_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET delivered = excluded.delivered`,
		archive.ID, archive.SourcePath, archive.Destination,
		archive.Renamed, archive.Delivered, archive.ArchivedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save archive: %w", err)
	}
	return nil
}

// ListArchives returns up to limit archives, newest first. A limit of zero or less returns all.
func (s *SQLiteStorage) ListArchives(ctx context.Context, limit int) ([]model.Archive, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_path, destination, renamed, delivered, archived_at
		FROM archives ORDER BY archived_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archives: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var archives []model.Archive
	for rows.Next() {
		var a model.Archive
		if err := rows.Scan(&a.ID, &a.SourcePath, &a.Destination, &a.Renamed, &a.Delivered, &a.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archive: %w", err)
		}
		a.ArchivedAt = a.ArchivedAt.UTC()
		archives = append(archives, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archives: %w", err)
	}
	return archives, nil
}
