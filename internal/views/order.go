package views

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"wadshelf/internal/fields"
	"wadshelf/internal/layout"
	"wadshelf/internal/query"
)

// sortRecords orders records by the layout's sorted column. Without one the
// fetch order (title) is kept. Missing values sort first ascending.
func sortRecords(records []query.Record, lay layout.Layout) {
	col, ok := lay.SortedColumn()
	if !ok {
		return
	}
	key := col.Field.Key
	slices.SortStableFunc(records, func(a, b query.Record) int {
		c := compareValues(a.Values[key], b.Values[key])
		if col.Sort == layout.SortDescending {
			return -c
		}
		return c
	})
}

// recentlyPlayed keeps played records, most recent first, up to limit.
func recentlyPlayed(records []query.Record, limit int) []query.Record {
	out := make([]query.Record, 0, len(records))
	for _, r := range records {
		if t, ok := r.Values[fields.LastPlayed].(time.Time); ok && !t.IsZero() {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b query.Record) int {
		return compareValues(b.Values[fields.LastPlayed], a.Values[fields.LastPlayed])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(fields.Fold(av), fields.Fold(bv))
	case int64:
		bv, _ := b.(int64)
		return cmp.Compare(av, bv)
	case float64:
		bv, _ := b.(float64)
		return cmp.Compare(av, bv)
	case time.Duration:
		bv, _ := b.(time.Duration)
		return cmp.Compare(av, bv)
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	}
	return 0
}
