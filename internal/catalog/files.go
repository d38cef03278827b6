package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const fileColumns = `id, game_file_id, source_port_id, file_type, path, description, created_at`

func scanFile(scanner rowScanner) (*FileData, error) {
	var (
		f            FileData
		sourcePortID sql.NullInt64
		fileType     string
		description  sql.NullString
		createdAt    sql.NullString
	)
	if err := scanner.Scan(&f.ID, &f.GameFileID, &sourcePortID, &fileType, &f.Path, &description, &createdAt); err != nil {
		return nil, err
	}
	f.SourcePortID = sourcePortID.Int64
	f.Type = FileType(fileType)
	f.Description = description.String
	f.CreatedAt = parseTimeString(createdAt)
	return &f, nil
}

// InsertFile attaches a file to a game file.
func (s *Store) InsertFile(ctx context.Context, f *FileData) (*FileData, error) {
	if f == nil {
		return nil, errors.New("file is nil")
	}
	if _, err := ParseFileType(string(f.Type)); err != nil {
		return nil, err
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO files (game_file_id, source_port_id, file_type, path, description, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		f.GameFileID,
		nullableID(f.SourcePortID),
		string(f.Type),
		f.Path,
		nullableString(f.Description),
		formatTime(f.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	stored, err := scanFile(row)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return stored, nil
}

// DeleteFile removes one attachment.
func (s *Store) DeleteFile(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete file %d: %w", id, ErrNotFound)
	}
	return nil
}

// FilesForGame lists the attachments of a game file, newest first.
func (s *Store) FilesForGame(ctx context.Context, gameFileID int64) ([]*FileData, error) {
	return s.listFiles(ctx, `WHERE game_file_id = ?`, gameFileID)
}

// FilesByType lists attachments of one type across the library.
func (s *Store) FilesByType(ctx context.Context, fileType FileType) ([]*FileData, error) {
	return s.listFiles(ctx, `WHERE file_type = ?`, string(fileType))
}

func (s *Store) listFiles(ctx context.Context, where string, args ...any) ([]*FileData, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `SELECT `+fileColumns+` FROM files `+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var out []*FileData
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DetachSourcePort clears the source port reference of every attachment
// recorded with it, returning the number of attachments changed.
func (s *Store) DetachSourcePort(ctx context.Context, sourcePortID int64) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(ctx, `UPDATE files SET source_port_id = NULL WHERE source_port_id = ?`, sourcePortID)
	if err != nil {
		return 0, fmt.Errorf("detach source port: %w", err)
	}
	return res.RowsAffected()
}
