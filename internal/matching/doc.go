// Package matching pairs aggregated media records with curriculum items by
// title.
//
// Matching runs in two phases. The exact phase joins titles whose normalized
// forms are identical. The fuzzy phase scores the remaining titles by shared
// word tokens, keeps each media record's best candidates, and assigns pairs
// greedily from the highest score down so that every media record and every
// curriculum item is used at most once. Greedy assignment can miss the
// globally best total score; results are deterministic for identical input.
package matching
