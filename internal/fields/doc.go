// Package fields is the catalog of every attribute a game file record can
// project, filter on, or display.
//
// The catalog is built once at init and never mutated, so it is safe to read
// from any goroutine without locking. Query building, layout resolution and
// the SQLite store all consult it to decide which keys are valid, what a
// column is titled, how wide it starts out and how its values are formatted.
package fields
