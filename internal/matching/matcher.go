package matching

import (
	"cmp"
	"slices"

	"coursemetrics/internal/textutil"
)

// Method records how a pair was found.
type Method string

const (
	MethodExact    Method = "exact"
	MethodFuzzy    Method = "fuzzy"
	MethodFallback Method = "fallback"
)

const (
	DefaultThreshold   = 80.0
	DefaultFallbackMin = 70.0
	DefaultTopK        = 6
)

// Pair links a media record to a curriculum item by slice index.
type Pair struct {
	MediaIndex int     `json:"media_index"`
	ItemIndex  int     `json:"item_index"`
	Score      float64 `json:"score"`
	Method     Method  `json:"method"`
}

// Result holds accepted pairs plus the indexes left unmatched on each side.
type Result struct {
	Pairs          []Pair
	UnmatchedMedia []int
	UnmatchedItems []int
	// FallbackUsed is set when no fuzzy candidate reached the threshold and
	// the relaxed fallback rule was applied.
	FallbackUsed bool
}

// Scorer rates two normalized titles on a 0-100 scale.
type Scorer func(a, b string) float64

// Matcher reconciles two title lists.
type Matcher struct {
	threshold   float64
	fallbackMin float64
	topK        int
	score       Scorer
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the minimum fuzzy score accepted in the normal case.
func WithThreshold(v float64) Option {
	return func(m *Matcher) { m.threshold = v }
}

// WithFallbackMin sets the minimum score for the fallback rule.
func WithFallbackMin(v float64) Option {
	return func(m *Matcher) { m.fallbackMin = v }
}

// WithTopK bounds the candidates kept per media record.
func WithTopK(k int) Option {
	return func(m *Matcher) {
		if k > 0 {
			m.topK = k
		}
	}
}

// WithScorer replaces the token-set similarity.
func WithScorer(s Scorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.score = s
		}
	}
}

// New creates a Matcher with the default parameters.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		threshold:   DefaultThreshold,
		fallbackMin: DefaultFallbackMin,
		topK:        DefaultTopK,
		score:       textutil.TokenSetScore,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match pairs mediaTitles with itemTitles. Titles are normalized internally;
// returned indexes refer to the input slices.
func (m *Matcher) Match(mediaTitles, itemTitles []string) Result {
	mediaKeys := normalizeAll(mediaTitles)
	itemKeys := normalizeAll(itemTitles)
	usedMedia := make([]bool, len(mediaKeys))
	usedItems := make([]bool, len(itemKeys))

	var pairs []Pair

	// exact phase: each media record takes the first free item with the same key
	itemsByKey := make(map[string][]int)
	for j, key := range itemKeys {
		if key != "" {
			itemsByKey[key] = append(itemsByKey[key], j)
		}
	}
	for i, key := range mediaKeys {
		if key == "" {
			continue
		}
		for _, j := range itemsByKey[key] {
			if usedItems[j] {
				continue
			}
			usedMedia[i] = true
			usedItems[j] = true
			pairs = append(pairs, Pair{MediaIndex: i, ItemIndex: j, Score: 100, Method: MethodExact})
			break
		}
	}

	fuzzy, fallback := m.fuzzyCandidates(mediaKeys, itemKeys, usedMedia, usedItems)
	pairs = append(pairs, greedy(fuzzy, usedMedia, usedItems)...)

	result := Result{Pairs: pairs, FallbackUsed: fallback}
	for i, used := range usedMedia {
		if !used {
			result.UnmatchedMedia = append(result.UnmatchedMedia, i)
		}
	}
	for j, used := range usedItems {
		if !used {
			result.UnmatchedItems = append(result.UnmatchedItems, j)
		}
	}
	return result
}

// fuzzyCandidates scores every free media record against every free item,
// keeps the top K per media record, and filters them by the threshold. When
// nothing anywhere reaches the threshold each media record's single best
// candidate is kept instead if it reaches the fallback minimum.
func (m *Matcher) fuzzyCandidates(mediaKeys, itemKeys []string, usedMedia, usedItems []bool) ([]Pair, bool) {
	var freeItems []int
	for j, used := range usedItems {
		if !used {
			freeItems = append(freeItems, j)
		}
	}
	if len(freeItems) == 0 {
		return nil, false
	}

	var accepted []Pair
	var best []Pair
	for i, key := range mediaKeys {
		if usedMedia[i] {
			continue
		}
		scored := make([]Pair, 0, len(freeItems))
		for _, j := range freeItems {
			scored = append(scored, Pair{MediaIndex: i, ItemIndex: j, Score: m.score(key, itemKeys[j]), Method: MethodFuzzy})
		}
		slices.SortStableFunc(scored, func(a, b Pair) int {
			if c := cmp.Compare(b.Score, a.Score); c != 0 {
				return c
			}
			return cmp.Compare(a.ItemIndex, b.ItemIndex)
		})
		if len(scored) > m.topK {
			scored = scored[:m.topK]
		}
		best = append(best, scored[0])
		for _, p := range scored {
			if p.Score >= m.threshold {
				accepted = append(accepted, p)
			}
		}
	}

	if len(accepted) > 0 {
		return accepted, false
	}
	var fallback []Pair
	for _, p := range best {
		if p.Score >= m.fallbackMin {
			p.Method = MethodFallback
			fallback = append(fallback, p)
		}
	}
	return fallback, len(fallback) > 0
}

// greedy accepts candidates from the highest score down, skipping any whose
// media record or item is already taken. Ties go to the lower media index,
// then the lower item index.
func greedy(candidates []Pair, usedMedia, usedItems []bool) []Pair {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b Pair) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.MediaIndex, b.MediaIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemIndex, b.ItemIndex)
	})

	var out []Pair
	for _, p := range sorted {
		if usedMedia[p.MediaIndex] || usedItems[p.ItemIndex] {
			continue
		}
		usedMedia[p.MediaIndex] = true
		usedItems[p.ItemIndex] = true
		out = append(out, p)
	}
	return out
}

func normalizeAll(titles []string) []string {
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = textutil.NormalizeTitle(t)
	}
	return out
}
