package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"wadshelf/internal/layout"
)

const columnLockRetry = 25 * time.Millisecond

// ColumnConfig returns the persisted layout of one view in display order.
func (s *Store) ColumnConfig(ctx context.Context, view string) ([]layout.ColumnConfig, error) {
	return s.queryColumns(ctx,
		`SELECT view, column_key, width, sort FROM column_config WHERE view = ? COLLATE NOCASE ORDER BY position`,
		strings.TrimSpace(view),
	)
}

// AllColumnConfig returns every persisted entry grouped by view.
func (s *Store) AllColumnConfig(ctx context.Context) ([]layout.ColumnConfig, error) {
	return s.queryColumns(ctx, `SELECT view, column_key, width, sort FROM column_config ORDER BY view, position`)
}

func (s *Store) queryColumns(ctx context.Context, stmt string, args ...any) ([]layout.ColumnConfig, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("column config: %w", err)
	}
	defer rows.Close()

	var out []layout.ColumnConfig
	for rows.Next() {
		var (
			entry layout.ColumnConfig
			sort  sql.NullString
		)
		if err := rows.Scan(&entry.View, &entry.Column, &entry.Width, &sort); err != nil {
			return nil, fmt.Errorf("scan column config: %w", err)
		}
		// Unreadable sort values degrade to unsorted.
		entry.Sort, _ = layout.ParseSortDirection(sort.String)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// SaveColumnConfig replaces the persisted layout of view with entries, in
// order. Entries naming another view are rejected.
func (s *Store) SaveColumnConfig(ctx context.Context, view string, entries []layout.ColumnConfig) error {
	view = strings.TrimSpace(view)
	if view == "" {
		return errors.New("column config requires a view")
	}
	for _, e := range entries {
		if !strings.EqualFold(strings.TrimSpace(e.View), view) {
			return fmt.Errorf("column %q belongs to view %q, not %q", e.Column, e.View, view)
		}
		if e.Width <= 0 {
			return fmt.Errorf("column %q: width must be positive", e.Column)
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.withColumnLock(ctx, func() error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM column_config WHERE view = ? COLLATE NOCASE`, view); err != nil {
				return fmt.Errorf("clear column config: %w", err)
			}
			for i, e := range entries {
				if _, err := tx.ExecContext(
					ctx,
					`INSERT INTO column_config (view, column_key, position, width, sort) VALUES (?, ?, ?, ?, ?)
                     ON CONFLICT(view, column_key) DO UPDATE SET position = excluded.position, width = excluded.width, sort = excluded.sort`,
					view,
					e.Column,
					i,
					e.Width,
					e.Sort.String(),
				); err != nil {
					return fmt.Errorf("save column %q: %w", e.Column, err)
				}
			}
			return nil
		})
	})
}

// ResetColumnConfig drops the persisted layout of view so it falls back to
// catalog defaults.
func (s *Store) ResetColumnConfig(ctx context.Context, view string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.withColumnLock(ctx, func() error {
		if _, err := s.execWithRetry(ctx, `DELETE FROM column_config WHERE view = ? COLLATE NOCASE`, strings.TrimSpace(view)); err != nil {
			return fmt.Errorf("reset column config: %w", err)
		}
		return nil
	})
}

// withColumnLock serialises layout writers across processes.
func (s *Store) withColumnLock(ctx context.Context, fn func() error) error {
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLockContext(ctx, columnLockRetry)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrLayoutLocked, err)
		}
		return fmt.Errorf("acquire column lock: %w", err)
	}
	if !ok {
		return ErrLayoutLocked
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
