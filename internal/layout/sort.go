package layout

import (
	"fmt"
	"strings"
)

// SortDirection is the sort state of a column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	default:
		return "none"
	}
}

// Marker returns a short header suffix for sorted columns.
func (d SortDirection) Marker() string {
	switch d {
	case SortAscending:
		return " ▲"
	case SortDescending:
		return " ▼"
	default:
		return ""
	}
}

// ParseSortDirection accepts the String form or the abbreviations asc/desc.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortNone, fmt.Errorf("unknown sort direction %q", s)
	}
}
