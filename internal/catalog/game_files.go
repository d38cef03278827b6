package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wadshelf/internal/fields"
)

const gameFileColumns = `id, file_name, title, author, description, release_date, downloaded,
    last_played, map_count, rating, play_time, comments, settings, is_base, source_port_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGameFile(scanner rowScanner) (*GameFile, error) {
	var (
		g            GameFile
		title        sql.NullString
		author       sql.NullString
		description  sql.NullString
		releaseDate  sql.NullString
		downloaded   sql.NullString
		lastPlayed   sql.NullString
		mapCount     sql.NullInt64
		rating       sql.NullFloat64
		playTime     sql.NullInt64
		comments     sql.NullString
		settings     sql.NullString
		isBase       int
		sourcePortID sql.NullInt64
	)
	if err := scanner.Scan(
		&g.ID, &g.FileName, &title, &author, &description, &releaseDate, &downloaded,
		&lastPlayed, &mapCount, &rating, &playTime, &comments, &settings, &isBase, &sourcePortID,
	); err != nil {
		return nil, err
	}
	g.Title = title.String
	g.Author = author.String
	g.Description = description.String
	g.ReleaseDate = parseTimeString(releaseDate)
	g.Downloaded = parseTimeString(downloaded)
	g.LastPlayed = parseTimeString(lastPlayed)
	g.MapCount = mapCount.Int64
	g.Rating = rating.Float64
	g.PlayTime = time.Duration(playTime.Int64) * time.Second
	g.Comments = comments.String
	g.Settings = settings.String
	g.IsBase = isBase != 0
	g.SourcePortID = sourcePortID.Int64
	return &g, nil
}

func gameFileArgs(g *GameFile) []any {
	return []any{
		nullableString(g.Title),
		nullableString(g.Author),
		nullableString(g.Description),
		nullableTime(g.ReleaseDate),
		nullableTime(g.Downloaded),
		nullableTime(g.LastPlayed),
		nullableInt(g.MapCount),
		nullableFloat(g.Rating),
		nullableInt(int64(g.PlayTime / time.Second)),
		nullableString(g.Comments),
		nullableString(g.Settings),
		boolToInt(g.IsBase),
		nullableID(g.SourcePortID),
	}
}

// InsertGameFile adds a game file and returns the stored row.
func (s *Store) InsertGameFile(ctx context.Context, g *GameFile) (*GameFile, error) {
	if g == nil {
		return nil, errors.New("game file is nil")
	}
	if strings.TrimSpace(g.FileName) == "" {
		return nil, errors.New("game file requires a file name")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	args := append([]any{g.FileName}, gameFileArgs(g)...)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO game_files (
            file_name, title, author, description, release_date, downloaded,
            last_played, map_count, rating, play_time, comments, settings, is_base, source_port_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("insert game file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetGameFile(ctx, id)
}

// GetGameFile fetches a game file by identifier. A missing row returns nil
// without error.
func (s *Store) GetGameFile(ctx context.Context, id int64) (*GameFile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.db.QueryRowContext(ctx, `SELECT `+gameFileColumns+` FROM game_files WHERE id = ?`, id)
	g, err := scanGameFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game file: %w", err)
	}
	return g, nil
}

// GetGameFileByName fetches a game file by file name, ignoring case.
func (s *Store) GetGameFileByName(ctx context.Context, fileName string) (*GameFile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.db.QueryRowContext(ctx, `SELECT `+gameFileColumns+` FROM game_files WHERE file_name = ? COLLATE NOCASE`, fileName)
	g, err := scanGameFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game file by name: %w", err)
	}
	return g, nil
}

// UpdateGameFile persists every column of an existing game file.
func (s *Store) UpdateGameFile(ctx context.Context, g *GameFile) error {
	if g == nil {
		return errors.New("game file is nil")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	args := append([]any{g.FileName}, gameFileArgs(g)...)
	args = append(args, g.ID)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE game_files
         SET file_name = ?, title = ?, author = ?, description = ?, release_date = ?,
             downloaded = ?, last_played = ?, map_count = ?, rating = ?, play_time = ?,
             comments = ?, settings = ?, is_base = ?, source_port_id = ?
         WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update game file: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update game file %d: %w", g.ID, ErrNotFound)
	}
	return nil
}

// DeleteGameFile removes a game file with its attachments and tag mappings.
func (s *Store) DeleteGameFile(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(ctx, `DELETE FROM game_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game file: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete game file %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListGameFiles returns every game file ordered by title.
func (s *Store) ListGameFiles(ctx context.Context) ([]*GameFile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameFileColumns+` FROM game_files ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list game files: %w", err)
	}
	return collectGameFiles(rows)
}

func collectGameFiles(rows *sql.Rows) ([]*GameFile, error) {
	defer rows.Close()
	var out []*GameFile
	for rows.Next() {
		g, err := scanGameFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game file: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGameFilesWhere sets setField to setValue on every game file whose
// whereField equals whereValue, returning the number of rows changed.
func (s *Store) UpdateGameFilesWhere(ctx context.Context, whereField fields.Key, whereValue any, setField fields.Key, setValue any) (int64, error) {
	where, ok := fields.Get(whereField)
	if !ok {
		return 0, fmt.Errorf("unknown field %q", whereField)
	}
	set, ok := fields.Get(setField)
	if !ok {
		return 0, fmt.Errorf("unknown field %q", setField)
	}
	whereArg, err := columnValue(where, whereValue)
	if err != nil {
		return 0, err
	}
	setArg, err := columnValue(set, setValue)
	if err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	condition, args := comparison(where, "=", whereArg)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE game_files AS g SET `+set.Column+` = ? WHERE `+condition,
		append([]any{setArg}, args...)...,
	)
	if err != nil {
		return 0, fmt.Errorf("update game files where %s: %w", whereField, err)
	}
	return res.RowsAffected()
}

// MarkPlayed stamps the last played time and adds to the accumulated play time.
func (s *Store) MarkPlayed(ctx context.Context, id int64, at time.Time, played time.Duration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE game_files SET last_played = ?, play_time = COALESCE(play_time, 0) + ? WHERE id = ?`,
		formatTime(at),
		int64(played/time.Second),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark played: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark played %d: %w", id, ErrNotFound)
	}
	return nil
}
