package query

import (
	"wadshelf/internal/fields"
)

// Specification describes what to fetch and how to filter it. Build is the
// only supported constructor.
type Specification struct {
	Fields      []fields.Key
	Predicates  []Predicate
	TagScope    *Tag
	ExcludeBase bool
	OnlyBase    bool

	// Dropped lists projection or predicate keys that were not in the field
	// catalog and were ignored.
	Dropped []string
}

// Build assembles a Specification. Keys are matched against the field
// catalog ignoring case; unknown ones are dropped and reported through
// Specification.Dropped. Projection order is kept and duplicates removed.
// Predicate values are coerced to their field's kind.
func Build(projection []fields.Key, predicates []Predicate, tag *Tag) (Specification, error) {
	const op = "build query"

	spec := Specification{}
	seen := make(map[fields.Key]struct{}, len(projection))
	for _, key := range projection {
		f, ok := fields.Lookup(string(key))
		if !ok {
			spec.Dropped = append(spec.Dropped, string(key))
			continue
		}
		if _, dup := seen[f.Key]; dup {
			continue
		}
		seen[f.Key] = struct{}{}
		spec.Fields = append(spec.Fields, f.Key)
	}
	if len(spec.Fields) == 0 {
		return Specification{}, invalidf(op, "no known fields to project")
	}

	for _, p := range predicates {
		f, ok := fields.Lookup(string(p.Field))
		if !ok {
			spec.Dropped = append(spec.Dropped, string(p.Field))
			continue
		}
		if !p.Op.valid() {
			return Specification{}, invalidf(op, "predicate on %s: unknown operator %q", f.Key, p.Op)
		}
		if p.Op == OpContains && f.Kind != fields.KindText {
			return Specification{}, invalidf(op, "predicate on %s: contains requires a text field", f.Key)
		}
		if p.Op.ordered() && f.Kind == fields.KindText {
			return Specification{}, invalidf(op, "predicate on %s: %s requires a numeric or date field", f.Key, p.Op)
		}
		value, err := f.Kind.Coerce(p.Value)
		if err != nil {
			return Specification{}, invalidf(op, "predicate on %s: %v", f.Key, err)
		}
		if value == nil && p.Op != OpEqual && p.Op != OpNotEqual {
			return Specification{}, invalidf(op, "predicate on %s: %s needs a value", f.Key, p.Op)
		}
		spec.Predicates = append(spec.Predicates, Predicate{Field: f.Key, Op: p.Op, Value: value})
	}

	if tag != nil {
		scope := *tag
		spec.TagScope = &scope
	}
	return spec, nil
}

// WithExcludeBase returns a copy of s that subtracts base records from its
// result when exclude is true.
func (s Specification) WithExcludeBase(exclude bool) Specification {
	s.ExcludeBase = exclude
	return s
}

// WithOnlyBase returns a copy of s that keeps only base records in its
// result when only is true.
func (s Specification) WithOnlyBase(only bool) Specification {
	s.OnlyBase = only
	return s
}

// Filtered reports whether the specification carries any predicate.
func (s Specification) Filtered() bool {
	return len(s.Predicates) > 0
}
