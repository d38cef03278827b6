// Package views models the launcher's tabs.
//
// A view is a named, pre-scoped query over the catalog: the built-in local,
// recent, untagged and iwads views plus one view per tag flagged to show as a
// tab. Service.Refresh turns a view and free-text search terms into a query
// specification, runs it through the query engine, resolves the view's
// column layout from persisted configuration and returns the page to render.
package views
