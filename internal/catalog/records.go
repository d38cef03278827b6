package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wadshelf/internal/fields"
	"wadshelf/internal/query"
)

// FetchRecords implements query.RecordSource. Records come back ordered by
// title, then ID. A tag with a negative ID selects untagged game files.
func (s *Store) FetchRecords(ctx context.Context, fieldKeys []fields.Key, predicate *query.Predicate, tag *query.Tag) ([]query.Record, error) {
	projection, err := projectionFields(fieldKeys)
	if err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)
	if predicate != nil {
		cond, condArgs, err := predicateSQL(*predicate)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}
	if tag != nil {
		if tag.ID < 0 {
			conditions = append(conditions, `NOT EXISTS (SELECT 1 FROM tag_mappings m WHERE m.game_file_id = g.id)`)
		} else {
			conditions = append(conditions, `EXISTS (SELECT 1 FROM tag_mappings m WHERE m.game_file_id = g.id AND m.tag_id = ?)`)
			args = append(args, tag.ID)
		}
	}
	return s.selectRecords(ctx, projection, conditions, args)
}

// FetchBaseRecords implements query.RecordSource.
func (s *Store) FetchBaseRecords(ctx context.Context) ([]query.Record, error) {
	return s.selectRecords(ctx, fields.All(), []string{"g.is_base = 1"}, nil)
}

func (s *Store) selectRecords(ctx context.Context, projection []fields.Field, conditions []string, args []any) ([]query.Record, error) {
	columns := make([]string, 0, len(projection)+1)
	columns = append(columns, "g.id")
	for _, f := range projection {
		columns = append(columns, "g."+f.Column)
	}
	stmt := `SELECT ` + strings.Join(columns, ", ") + ` FROM game_files g`
	if len(conditions) > 0 {
		stmt += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	stmt += ` ORDER BY g.title COLLATE NOCASE, g.id`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	defer rows.Close()

	var out []query.Record
	for rows.Next() {
		record, err := scanRecord(rows, projection)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	return out, nil
}

func projectionFields(keys []fields.Key) ([]fields.Field, error) {
	out := make([]fields.Field, 0, len(keys))
	for _, key := range keys {
		f, ok := fields.Get(key)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		out = append(out, f)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows, projection []fields.Field) (query.Record, error) {
	var id int64
	dest := make([]any, 0, len(projection)+1)
	dest = append(dest, &id)
	for _, f := range projection {
		switch f.Kind {
		case fields.KindInteger, fields.KindDuration:
			dest = append(dest, new(sql.NullInt64))
		case fields.KindFloat:
			dest = append(dest, new(sql.NullFloat64))
		default:
			dest = append(dest, new(sql.NullString))
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return query.Record{}, err
	}

	values := make(map[fields.Key]any, len(projection))
	for i, f := range projection {
		switch v := dest[i+1].(type) {
		case *sql.NullInt64:
			if f.Kind == fields.KindDuration {
				values[f.Key] = time.Duration(v.Int64) * time.Second
			} else {
				values[f.Key] = v.Int64
			}
		case *sql.NullFloat64:
			values[f.Key] = v.Float64
		case *sql.NullString:
			if f.Kind == fields.KindDate {
				values[f.Key] = timeOrNil(parseTimeString(*v))
			} else {
				values[f.Key] = v.String
			}
		}
	}
	return query.Record{ID: id, Values: values}, nil
}

var sqlOperators = map[query.Operator]string{
	query.OpEqual:        "=",
	query.OpNotEqual:     "<>",
	query.OpLess:         "<",
	query.OpLessEqual:    "<=",
	query.OpGreater:      ">",
	query.OpGreaterEqual: ">=",
}

func predicateSQL(p query.Predicate) (string, []any, error) {
	f, ok := fields.Get(p.Field)
	if !ok {
		return "", nil, fmt.Errorf("unknown field %q", p.Field)
	}
	arg, err := columnValue(f, p.Value)
	if err != nil {
		return "", nil, err
	}
	if p.Op == query.OpContains {
		if f.Kind != fields.KindText {
			return "", nil, fmt.Errorf("contains on %s field %s", f.Kind, f.Key)
		}
		text, _ := arg.(string)
		return `COALESCE(g.` + f.Column + `, '') LIKE ? ESCAPE '\'`, []any{"%" + escapeLike(text) + "%"}, nil
	}
	op, ok := sqlOperators[p.Op]
	if !ok {
		return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
	}
	cond, args := comparison(f, op, arg)
	return cond, args, nil
}

// comparison renders "field op ?". Missing text and numbers compare as their
// zero value; dates compare by local calendar day and a missing date only
// matches a nil operand.
func comparison(f fields.Field, op string, arg any) (string, []any) {
	col := "g." + f.Column
	switch f.Kind {
	case fields.KindText:
		if arg == nil {
			arg = ""
		}
		return `COALESCE(` + col + `, '') ` + op + ` ? COLLATE NOCASE`, []any{arg}
	case fields.KindDate:
		if arg == nil {
			if op == "<>" {
				return col + ` IS NOT NULL`, nil
			}
			return col + ` IS NULL`, nil
		}
		start, end := localDay(arg)
		switch op {
		case "=":
			return `(` + col + ` >= ? AND ` + col + ` < ?)`, []any{start, end}
		case "<>":
			return `(` + col + ` IS NULL OR ` + col + ` < ? OR ` + col + ` >= ?)`, []any{start, end}
		case "<":
			return col + ` < ?`, []any{start}
		case "<=":
			return col + ` < ?`, []any{end}
		case ">":
			return col + ` >= ?`, []any{end}
		default:
			return col + ` >= ?`, []any{start}
		}
	default:
		if arg == nil {
			arg = 0
		}
		return `COALESCE(` + col + `, 0) ` + op + ` ?`, []any{arg}
	}
}

// localDay returns the stored forms of the local midnights that bound the
// calendar day holding the stored timestamp value.
func localDay(value any) (string, string) {
	t := parseTimeString(sql.NullString{String: fmt.Sprint(value), Valid: true}).Local()
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return formatTime(start), formatTime(start.AddDate(0, 0, 1))
}

// columnValue converts a caller value to its stored representation.
func columnValue(f fields.Field, value any) (any, error) {
	coerced, err := f.Kind.Coerce(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Key, err)
	}
	switch v := coerced.(type) {
	case time.Time:
		return formatTime(v), nil
	case time.Duration:
		return int64(v / time.Second), nil
	default:
		return v, nil
	}
}
