// Package logging assembles structured slog loggers and formatting helpers
// used across wadshelf.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so a view refresh can tag every log
// line with the view name and a per-refresh request ID. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
