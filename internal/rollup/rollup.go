// Package rollup aggregates matched media metrics up to curriculum modules.
package rollup

import (
	"cmp"
	"slices"

	"coursemetrics/internal/curriculum"
	"coursemetrics/internal/engagement"
	"coursemetrics/internal/matching"
)

// ModuleMetric summarizes the matched media of one module. Slice order is
// curriculum order.
type ModuleMetric struct {
	Name                string   `json:"module"`
	AverageViewFraction *float64 `json:"average_view_fraction"`
	ViewerCountSum      int      `json:"viewer_count_sum"`
	MatchedMedia        int      `json:"matched_media"`
}

type moduleGroup struct {
	name      string
	position  int
	firstSeen int
	mean      engagement.Mean
	viewers   int
	matched   int
}

// Modules joins pairs to their items and groups by module name. The average
// view fraction is the unweighted mean over matched media that have one, and
// the viewer count is the plain sum of their unique viewers. Modules are
// ordered by position, ties by the first item of the module in curriculum
// order. Modules with no matched media are omitted.
func Modules(media []engagement.MediaRecord, items []curriculum.Item, pairs []matching.Pair) []ModuleMetric {
	matchedByItem := make(map[int]int, len(pairs))
	for _, p := range pairs {
		if p.MediaIndex < 0 || p.MediaIndex >= len(media) || p.ItemIndex < 0 || p.ItemIndex >= len(items) {
			continue
		}
		matchedByItem[p.ItemIndex] = p.MediaIndex
	}

	index := make(map[string]int)
	var groups []*moduleGroup
	for j, item := range items {
		pos, ok := index[item.ModuleName]
		if !ok {
			pos = len(groups)
			index[item.ModuleName] = pos
			groups = append(groups, &moduleGroup{name: item.ModuleName, position: item.ModulePosition, firstSeen: j})
		}
		mediaIndex, matched := matchedByItem[j]
		if !matched {
			continue
		}
		g := groups[pos]
		rec := media[mediaIndex]
		g.matched++
		g.viewers += rec.UniqueViewers
		if rec.AverageViewFraction != nil {
			g.mean.Add(*rec.AverageViewFraction)
		}
	}

	slices.SortStableFunc(groups, func(a, b *moduleGroup) int {
		if c := cmp.Compare(a.position, b.position); c != 0 {
			return c
		}
		return cmp.Compare(a.firstSeen, b.firstSeen)
	})

	out := make([]ModuleMetric, 0, len(groups))
	for _, g := range groups {
		if g.matched == 0 {
			continue
		}
		out = append(out, ModuleMetric{
			Name:                g.name,
			AverageViewFraction: g.mean.Value(),
			ViewerCountSum:      g.viewers,
			MatchedMedia:        g.matched,
		})
	}
	return out
}
