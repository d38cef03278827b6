package query

import (
	"wadshelf/internal/fields"
)

// Record is one game file projected to a set of fields.
type Record struct {
	ID     int64
	Values map[fields.Key]any
}

// Tag scopes a query to the game files carrying it.
type Tag struct {
	ID   int64
	Name string
}

// Get returns the value stored for key and whether the record defines it.
func (r Record) Get(key fields.Key) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Text returns the value for key formatted for display.
func (r Record) Text(key fields.Key, dateLayout string) string {
	f, ok := fields.Get(key)
	if !ok {
		return ""
	}
	return f.Format(r.Values[key], dateLayout)
}

// Clone returns a copy whose value map can be modified independently.
func (r Record) Clone() Record {
	out := Record{ID: r.ID, Values: make(map[fields.Key]any, len(r.Values))}
	for k, v := range r.Values {
		out.Values[k] = v
	}
	return out
}

// MergeFields copies values from source into a copy of target, key by key.
// Keys the target does not define are skipped so a projected record never
// grows fields it was not fetched with.
func MergeFields(target, source Record) Record {
	out := target.Clone()
	for key := range out.Values {
		if v, ok := source.Values[key]; ok {
			out.Values[key] = v
		}
	}
	return out
}
