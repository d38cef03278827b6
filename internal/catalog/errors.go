package catalog

import "errors"

var (
	// ErrNotFound reports an update or delete that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLayoutLocked reports that another process held the column lock for the
	// whole operation timeout.
	ErrLayoutLocked = errors.New("column layout is locked by another process")
)

// ErrorClassifier lets errors from other packages declare their class.
// Query errors implement it.
type ErrorClassifier interface {
	// ErrorKind returns "validation", "cancelled", "transient" or another
	// short class name.
	ErrorKind() string
}

// Classify maps an error to the kind the CLI reports to the user.
//
// Errors implementing ErrorClassifier report their own kind. Catalog
// sentinels map to "not_found", "configuration" and "transient". Everything
// else is "internal".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrSchemaMismatch):
		return "configuration"
	case errors.Is(err, ErrLayoutLocked), isSQLiteBusy(err):
		return "transient"
	}
	return "internal"
}
