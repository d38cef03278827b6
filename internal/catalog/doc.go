// Package catalog persists the game file library in SQLite.
//
// The Store owns the database connection, schema initialization and the
// narrow per-entity contracts (GameFiles, Files, SourcePorts, Tags, Columns)
// callers compose as needed. It also implements query.RecordSource: search
// predicates compile to parameterised SQL through the field catalog's column
// mapping, so the query engine never sees SQL.
//
// Schema changes bump schemaVersion in schema.go; an older database is
// rejected with ErrSchemaMismatch rather than migrated in place.
package catalog
