// Package export appends finished reconciliation runs to a SQLite database.
//
// The database is an export sink, not engine state: each run is written once,
// keyed by its run id, inside a single transaction. Writers take an exclusive
// file lock next to the database so concurrent invocations fail fast instead
// of interleaving.
package export
