// Package reconcile runs one engagement reconciliation end to end.
//
// An Engine takes a parsed engagement export, a curriculum item list and an
// optional class size, then produces the per-media, per-module and
// per-student tables together with the accepted title matches and a run
// summary. Every run gets a fresh run id that is attached to log lines and
// downstream sinks. Non-fatal data problems (no curriculum, no identity
// column, unmatched titles) are logged as warnings and yield empty tables;
// only malformed input surfaces as an error.
package reconcile
