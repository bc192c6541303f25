// Package main hosts the coursemetrics CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration, reads engagement exports
// and curriculum lists (from files or the Canvas API), runs the reconciliation
// engine, and writes the result tables to the terminal, JSON, CSV files, a
// SQLite export and a Prometheus textfile.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
