package fields

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the value type of a field. It doubles as the formatting hint for
// display.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
	KindDate
	KindDuration
)

// DefaultDateLayout is used when callers do not supply a date layout.
const DefaultDateLayout = "2006-01-02"

var dateInputLayouts = []string{
	DefaultDateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// Coerce converts a caller-supplied value to the Go type stored for this
// kind: string, int64, float64, time.Time or time.Duration. Strings are
// parsed; values already of a compatible type are converted. A nil value
// stays nil.
func (k Kind) Coerce(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		return k.parse(strings.TrimSpace(s))
	}
	switch k {
	case KindText:
		return fmt.Sprint(value), nil
	case KindInteger:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return wholeNumber(v)
		case float32:
			return wholeNumber(float64(v))
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case KindDate:
		if v, ok := value.(time.Time); ok {
			return v, nil
		}
	case KindDuration:
		switch v := value.(type) {
		case time.Duration:
			return v, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case int:
			return time.Duration(v) * time.Second, nil
		}
	}
	return nil, fmt.Errorf("cannot use %T as %s", value, k)
}

func (k Kind) parse(s string) (any, error) {
	switch k {
	case KindText:
		return s, nil
	case KindInteger:
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse integer %q: %w", s, err)
		}
		return v, nil
	case KindFloat:
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", s, err)
		}
		return v, nil
	case KindDate:
		if s == "" {
			return nil, nil
		}
		for _, layout := range dateInputLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("parse date %q: expected YYYY-MM-DD", s)
	case KindDuration:
		if s == "" {
			return nil, nil
		}
		if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("parse duration %q: %w", s, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown field kind %d", int(k))
	}
}

// wholeNumber converts v to int64 when it has no fractional part and fits.
func wholeNumber(v float64) (any, error) {
	if math.IsNaN(v) || math.Trunc(v) != v || v < math.MinInt64 || v >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is not a whole number", v)
	}
	return int64(v), nil
}

// Format renders value for display. Dates are shown in local time using
// dateLayout, falling back to DefaultDateLayout. Nil values and zero dates, ratings and durations
// render empty.
func (f Field) Format(value any, dateLayout string) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		if strings.TrimSpace(dateLayout) == "" {
			dateLayout = DefaultDateLayout
		}
		return v.Local().Format(dateLayout)
	case time.Duration:
		if v <= 0 {
			return ""
		}
		return formatPlayTime(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatPlayTime(d time.Duration) string {
	total := int64(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
