// Package textutil provides the title handling used to reconcile media
// titles with curriculum items.
//
// The primary use cases are:
//   - Normalizing titles so cosmetic differences do not block exact joins
//   - Scoring two titles by their shared word tokens on a 0-100 scale
//   - Sanitizing values for use in generated file names
//
// Normalization removes trailing duration annotations, read-only markers and
// numeric ids before case folding and punctuation removal. Scores follow the
// token-set approach: both titles are reduced to sorted unique tokens and
// compared through their intersection and differences, so word order never
// changes the result.
package textutil
