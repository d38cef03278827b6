// Package layout reconciles persisted per-view column settings with the
// current field catalog.
//
// Resolve keeps the saved column order for fields that still exist, drops
// columns that were removed from the catalog, appends newly introduced
// fields at the end and applies the one-time upgrade that moves the Maps
// column into its historical slot for layouts saved before it existed. The
// result is a display-ready Layout; Layout.AsConfig turns it back into rows
// for persistence.
package layout
