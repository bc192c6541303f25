// Package tabular holds the loosely typed table model shared by the engagement
// and curriculum loaders.
//
// Exports arrive with arbitrary headers and cells that may be text, numbers,
// or blank. A Table keeps the header order exactly as read and represents each
// cell as a Cell that is missing, text, or numeric. Column lookup goes through
// Resolve, which tries exact header matches before substring matches and
// reports a MissingColumnError when a required role cannot be found.
package tabular
