package query

import (
	"fmt"
	"strings"

	"wadshelf/internal/fields"
)

// Operator compares a record field with a predicate value.
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpContains     Operator = "contains"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "gte"
)

// Predicate is a single filter criterion over one field.
type Predicate struct {
	Field fields.Key
	Op    Operator
	Value any
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value)
}

// symbols is ordered so two-character operators are tried first.
var symbols = []struct {
	text string
	op   Operator
}{
	{"!=", OpNotEqual},
	{"<=", OpLessEqual},
	{">=", OpGreaterEqual},
	{"=", OpEqual},
	{"~", OpContains},
	{"<", OpLess},
	{">", OpGreater},
}

// ParseOperator accepts an operator name ("contains") or symbol ("~").
func ParseOperator(s string) (Operator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Operator(s) {
	case OpEqual, OpNotEqual, OpContains, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return Operator(s), nil
	}
	for _, sym := range symbols {
		if s == sym.text {
			return sym.op, nil
		}
	}
	if s == "==" {
		return OpEqual, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

// ParsePredicate parses expressions such as "MapCount>=10" or "Title~doom".
// The field name is matched case-insensitively; the value is kept as text and
// coerced by Build.
func ParsePredicate(expr string) (Predicate, error) {
	for i := 1; i < len(expr); i++ {
		for _, sym := range symbols {
			if !strings.HasPrefix(expr[i:], sym.text) {
				continue
			}
			name := strings.TrimSpace(expr[:i])
			f, ok := fields.Lookup(name)
			if !ok {
				return Predicate{}, invalidf("parse predicate", "unknown field %q", name)
			}
			value := strings.TrimSpace(expr[i+len(sym.text):])
			return Predicate{Field: f.Key, Op: sym.op, Value: value}, nil
		}
	}
	return Predicate{}, invalidf("parse predicate", "%q: expected FIELD OP VALUE", expr)
}

func (o Operator) valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpContains, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

func (o Operator) ordered() bool {
	switch o {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}
