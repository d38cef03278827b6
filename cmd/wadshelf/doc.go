// Package main hosts the wadshelf CLI entrypoint and command graph.
//
// The Cobra-based command tree opens the catalog store, runs view refreshes
// and searches through the views service, edits column layouts and manages
// game files, tags and source ports. It centralizes configuration resolution
// and logging setup so subcommands only deal with presentation.
package main
