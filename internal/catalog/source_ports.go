package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const sourcePortColumns = `id, name, executable, directory, supported_extensions, settings, is_utility`

func scanSourcePort(scanner rowScanner) (*SourcePort, error) {
	var (
		p          SourcePort
		directory  sql.NullString
		extensions sql.NullString
		settings   sql.NullString
		isUtility  int
	)
	if err := scanner.Scan(&p.ID, &p.Name, &p.Executable, &directory, &extensions, &settings, &isUtility); err != nil {
		return nil, err
	}
	p.Directory = directory.String
	p.SupportedExtensions = splitList(extensions)
	p.Settings = settings.String
	p.IsUtility = isUtility != 0
	return &p, nil
}

// InsertSourcePort registers a source port or utility.
func (s *Store) InsertSourcePort(ctx context.Context, p *SourcePort) (*SourcePort, error) {
	if p == nil {
		return nil, errors.New("source port is nil")
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Executable) == "" {
		return nil, errors.New("source port requires a name and an executable")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO source_ports (name, executable, directory, supported_extensions, settings, is_utility)
         VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name,
		p.Executable,
		nullableString(p.Directory),
		joinList(p.SupportedExtensions),
		nullableString(p.Settings),
		boolToInt(p.IsUtility),
	)
	if err != nil {
		return nil, fmt.Errorf("insert source port: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetSourcePort(ctx, id)
}

// GetSourcePort fetches a source port by identifier, or nil when absent.
func (s *Store) GetSourcePort(ctx context.Context, id int64) (*SourcePort, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.db.QueryRowContext(ctx, `SELECT `+sourcePortColumns+` FROM source_ports WHERE id = ?`, id)
	p, err := scanSourcePort(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get source port: %w", err)
	}
	return p, nil
}

// UpdateSourcePort persists changes to a source port.
func (s *Store) UpdateSourcePort(ctx context.Context, p *SourcePort) error {
	if p == nil {
		return errors.New("source port is nil")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE source_ports
         SET name = ?, executable = ?, directory = ?, supported_extensions = ?, settings = ?, is_utility = ?
         WHERE id = ?`,
		p.Name,
		p.Executable,
		nullableString(p.Directory),
		joinList(p.SupportedExtensions),
		nullableString(p.Settings),
		boolToInt(p.IsUtility),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update source port: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update source port %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeleteSourcePort removes a source port. Game files and attachments that
// referenced it keep existing with the reference cleared.
func (s *Store) DeleteSourcePort(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := s.execWithRetry(ctx, `DELETE FROM source_ports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete source port: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete source port %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListSourcePorts returns source ports, or utilities when utilities is set.
func (s *Store) ListSourcePorts(ctx context.Context, utilities bool) ([]*SourcePort, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sourcePortColumns+` FROM source_ports WHERE is_utility = ? ORDER BY name COLLATE NOCASE, id`,
		boolToInt(utilities),
	)
	if err != nil {
		return nil, fmt.Errorf("list source ports: %w", err)
	}
	defer rows.Close()

	var out []*SourcePort
	for rows.Next() {
		p, err := scanSourcePort(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source port: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
