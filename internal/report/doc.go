// Package report renders reconciliation results as terminal tables, JSON or
// CSV files.
//
// Fractions stay in [0,1] in machine-readable output and are shown as
// percentages only in the human tables.
package report
