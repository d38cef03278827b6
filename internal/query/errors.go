package query

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpecification reports a structurally invalid query.
	ErrInvalidSpecification = errors.New("invalid query specification")
	// ErrStoreUnavailable reports a failed or timed out data-access call.
	ErrStoreUnavailable = errors.New("catalog store unavailable")
	// ErrCancelled reports that the caller cancelled an in-flight fetch.
	ErrCancelled = errors.New("query cancelled")
)

// Error carries the failure class alongside the underlying cause. Both match
// with errors.Is.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorKind classifies the error for callers that map failures to exit
// messages.
func (e *Error) ErrorKind() string {
	switch e.Kind {
	case ErrInvalidSpecification:
		return "validation"
	case ErrCancelled:
		return "cancelled"
	default:
		return "transient"
	}
}

func invalidf(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidSpecification, Op: op, Err: fmt.Errorf(format, args...)}
}

// classifyFetchError maps a data-access failure to Cancelled when the caller
// gave up, and StoreUnavailable otherwise.
func classifyFetchError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: ErrCancelled, Op: op, Err: err}
	}
	return &Error{Kind: ErrStoreUnavailable, Op: op, Err: err}
}
