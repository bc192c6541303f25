// Package engagement turns a video platform engagement export into per-media
// and per-student statistics.
//
// Extract resolves the semantic columns of an arbitrary export and parses each
// row into a RawRow. AggregateMedia groups those rows by raw media title and
// Deidentify groups them by viewer, replacing identities with sequential
// S0001 style codes. All groupings follow first-appearance order so identical
// input always yields identical output.
package engagement
