package layout

import (
	"fmt"

	"wadshelf/internal/fields"
)

// migrationSlot is where the Maps column lands when upgrading layouts saved
// before the column existed.
const migrationSlot = 4

// ColumnConfig is one persisted column setting for a view.
type ColumnConfig struct {
	View   string
	Column string
	Width  int
	Sort   SortDirection
}

// Column is one resolved, display-ready column.
type Column struct {
	Field fields.Field
	Width int
	Sort  SortDirection
}

// Layout is the ordered column list for one view.
type Layout struct {
	View    string
	Columns []Column

	// Dropped lists persisted columns that no longer exist in the catalog.
	Dropped []string
	// Migrated is set when the Maps upgrade moved a column.
	Migrated bool
}

// Resolve computes the layout of view from the known fields and the persisted
// configuration of every view. It never fails: unknown columns are dropped,
// duplicate entries for a column keep the first occurrence, and fields
// without a persisted entry are appended in catalog order.
func Resolve(view string, known []fields.Field, persisted []ColumnConfig) Layout {
	entries := forView(view, persisted)
	out := Layout{View: view}

	present := make(map[fields.Key]struct{}, len(known))
	settings := make(map[fields.Key]ColumnConfig, len(entries))
	var (
		ordered []fields.Field
		sorted  sortState
		hasSort bool
	)
	hasMapCount := false
	for _, entry := range entries {
		if fields.EqualFold(entry.Column, string(fields.MapCount)) {
			hasMapCount = true
		}
		f, ok := findByKey(known, entry.Column)
		if !ok {
			out.Dropped = append(out.Dropped, entry.Column)
			continue
		}
		if _, dup := present[f.Key]; dup {
			continue
		}
		present[f.Key] = struct{}{}
		settings[f.Key] = entry
		ordered = append(ordered, f)
		if !hasSort && entry.Sort != SortNone {
			sorted, hasSort = sortState{key: f.Key, dir: entry.Sort}, true
		}
	}

	if len(entries) > 0 && !hasMapCount && len(ordered) > migrationSlot {
		if maps, ok := findByTitle(known, fields.MapsTitle); ok {
			ordered = moveTo(ordered, maps, migrationSlot)
			present[maps.Key] = struct{}{}
			out.Migrated = true
		}
	}

	for _, f := range known {
		if _, ok := present[f.Key]; ok {
			continue
		}
		present[f.Key] = struct{}{}
		ordered = append(ordered, f)
	}

	out.Columns = make([]Column, len(ordered))
	for i, f := range ordered {
		col := Column{Field: f, Width: f.Width}
		if s, ok := settings[f.Key]; ok && s.Width > 0 {
			col.Width = s.Width
		}
		if hasSort && f.Key == sorted.key {
			col.Sort = sorted.dir
		}
		out.Columns[i] = col
	}
	return out
}

// AsConfig converts the layout into persisted rows in display order.
func (l Layout) AsConfig() []ColumnConfig {
	out := make([]ColumnConfig, len(l.Columns))
	for i, col := range l.Columns {
		out[i] = ColumnConfig{
			View:   l.View,
			Column: string(col.Field.Key),
			Width:  col.Width,
			Sort:   col.Sort,
		}
	}
	return out
}

// Keys returns the column keys in display order.
func (l Layout) Keys() []fields.Key {
	out := make([]fields.Key, len(l.Columns))
	for i, col := range l.Columns {
		out[i] = col.Field.Key
	}
	return out
}

// Index returns the position of key, or -1.
func (l Layout) Index(key fields.Key) int {
	for i, col := range l.Columns {
		if col.Field.Key == key {
			return i
		}
	}
	return -1
}

// SortedColumn returns the column carrying a sort direction, if any.
func (l Layout) SortedColumn() (Column, bool) {
	for _, col := range l.Columns {
		if col.Sort != SortNone {
			return col, true
		}
	}
	return Column{}, false
}

// WithWidth returns a copy of l with the width of key replaced.
func (l Layout) WithWidth(key fields.Key, width int) (Layout, error) {
	idx := l.Index(key)
	if idx < 0 {
		return l, fmt.Errorf("view %q has no column %s", l.View, key)
	}
	if width <= 0 {
		return l, fmt.Errorf("column width must be positive, got %d", width)
	}
	out := l.clone()
	out.Columns[idx].Width = width
	return out, nil
}

// WithSort returns a copy of l where key carries dir and every other column
// is unsorted.
func (l Layout) WithSort(key fields.Key, dir SortDirection) (Layout, error) {
	idx := l.Index(key)
	if idx < 0 {
		return l, fmt.Errorf("view %q has no column %s", l.View, key)
	}
	out := l.clone()
	for i := range out.Columns {
		out.Columns[i].Sort = SortNone
	}
	out.Columns[idx].Sort = dir
	return out, nil
}

// WithMove returns a copy of l with key moved to position index. Indexes past
// the end move the column last.
func (l Layout) WithMove(key fields.Key, index int) (Layout, error) {
	idx := l.Index(key)
	if idx < 0 {
		return l, fmt.Errorf("view %q has no column %s", l.View, key)
	}
	if index < 0 {
		return l, fmt.Errorf("column index must not be negative, got %d", index)
	}
	out := l.clone()
	col := out.Columns[idx]
	out.Columns = append(out.Columns[:idx], out.Columns[idx+1:]...)
	if index > len(out.Columns) {
		index = len(out.Columns)
	}
	out.Columns = append(out.Columns[:index], append([]Column{col}, out.Columns[index:]...)...)
	return out, nil
}

func (l Layout) clone() Layout {
	out := l
	out.Columns = make([]Column, len(l.Columns))
	copy(out.Columns, l.Columns)
	out.Dropped = append([]string(nil), l.Dropped...)
	return out
}

func forView(view string, persisted []ColumnConfig) []ColumnConfig {
	var out []ColumnConfig
	for _, entry := range persisted {
		if fields.EqualFold(entry.View, view) {
			out = append(out, entry)
		}
	}
	return out
}

func findByKey(known []fields.Field, column string) (fields.Field, bool) {
	for _, f := range known {
		if fields.EqualFold(string(f.Key), column) {
			return f, true
		}
	}
	return fields.Field{}, false
}

func findByTitle(known []fields.Field, title string) (fields.Field, bool) {
	for _, f := range known {
		if fields.EqualFold(f.Title, title) {
			return f, true
		}
	}
	return fields.Field{}, false
}

// moveTo removes any occurrence of f and inserts it at index.
func moveTo(list []fields.Field, f fields.Field, index int) []fields.Field {
	out := make([]fields.Field, 0, len(list)+1)
	for _, existing := range list {
		if existing.Key != f.Key {
			out = append(out, existing)
		}
	}
	if index > len(out) {
		index = len(out)
	}
	out = append(out[:index], append([]fields.Field{f}, out[index:]...)...)
	return out
}

// sortState is the sort carried by the first resolved entry of a column
// that has a direction.
type sortState struct {
	key fields.Key
	dir SortDirection
}
