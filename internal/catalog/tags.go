package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const tagColumns = `id, name, color, show_in_tabs, show_in_list`

func scanTag(scanner rowScanner) (*Tag, error) {
	var (
		t          Tag
		color      sql.NullString
		showInTabs int
		showInList int
	)
	if err := scanner.Scan(&t.ID, &t.Name, &color, &showInTabs, &showInList); err != nil {
		return nil, err
	}
	t.Color = color.String
	t.ShowInTabs = showInTabs != 0
	t.ShowInList = showInList != 0
	return &t, nil
}

// InsertTag creates a tag. Names are unique ignoring case.
func (s *Store) InsertTag(ctx context.Context, t *Tag) (*Tag, error) {
	if t == nil {
		return nil, errors.New("tag is nil")
	}
	if strings.TrimSpace(t.Name) == "" {
		return nil, errors.New("tag requires a name")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO tags (name, color, show_in_tabs, show_in_list) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(t.Name),
		nullableString(t.Color),
		boolToInt(t.ShowInTabs),
		boolToInt(t.ShowInList),
	)
	if err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
	stored, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return stored, nil
}

// GetTagByName fetches a tag ignoring case, or nil when absent.
func (s *Store) GetTagByName(ctx context.Context, name string) (*Tag, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

// DeleteTag removes a tag and its mappings.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete tag %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListTags returns every tag ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*Tag, error) {
	return s.queryTags(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name COLLATE NOCASE`)
}

// TagsForGameFile returns the tags attached to a game file.
func (s *Store) TagsForGameFile(ctx context.Context, gameFileID int64) ([]*Tag, error) {
	return s.queryTags(
		ctx,
		`SELECT t.id, t.name, t.color, t.show_in_tabs, t.show_in_list
         FROM tags t JOIN tag_mappings m ON m.tag_id = t.id
         WHERE m.game_file_id = ?
         ORDER BY t.name COLLATE NOCASE`,
		gameFileID,
	)
}

func (s *Store) queryTags(ctx context.Context, stmt string, args ...any) ([]*Tag, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TagGameFile attaches a tag to a game file. Attaching twice is a no-op.
func (s *Store) TagGameFile(ctx context.Context, tagID, gameFileID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if _, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO tag_mappings (tag_id, game_file_id) VALUES (?, ?)`,
		tagID,
		gameFileID,
	); err != nil {
		return fmt.Errorf("tag game file: %w", err)
	}
	return nil
}

// UntagGameFile removes a tag from a game file.
func (s *Store) UntagGameFile(ctx context.Context, tagID, gameFileID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if _, err := s.execWithRetry(
		ctx,
		`DELETE FROM tag_mappings WHERE tag_id = ? AND game_file_id = ?`,
		tagID,
		gameFileID,
	); err != nil {
		return fmt.Errorf("untag game file: %w", err)
	}
	return nil
}

// GameFilesByTag returns the game files carrying a tag.
func (s *Store) GameFilesByTag(ctx context.Context, tagID int64) ([]*GameFile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+gameFileColumns+` FROM game_files
         WHERE id IN (SELECT game_file_id FROM tag_mappings WHERE tag_id = ?)
         ORDER BY title COLLATE NOCASE, id`,
		tagID,
	)
	if err != nil {
		return nil, fmt.Errorf("game files by tag: %w", err)
	}
	return collectGameFiles(rows)
}
