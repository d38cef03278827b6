// Package query builds and executes catalog queries.
//
// Build turns caller intent (fields to project, search predicates, an
// optional tag scope) into a validated Specification. Engine.Execute runs a
// Specification against a RecordSource: each predicate is fetched on its own
// and the subsets are unioned by record ID, so a record matching any
// predicate appears exactly once. Base records (IWADs) can be subtracted from
// the result, and an empty result is reported through Result.NoResults
// rather than as an error.
//
// Store failures surface as ErrStoreUnavailable and caller cancellation as
// ErrCancelled; the engine never retries.
package query
