package engagement

import "fmt"

// UnknownUser is the bucket for rows without a viewer identity.
const UnknownUser = "unknown"

// StudentEngagement is the de-identified summary for one viewer.
type StudentEngagement struct {
	ID                             string   `json:"student"`
	AverageViewFractionWhenWatched *float64 `json:"average_view_fraction_when_watched"`
	ViewFractionOfTotalCatalog     *float64 `json:"view_fraction_of_total_catalog"`
}

type studentGroup struct {
	mean    Mean
	seconds float64
	viewed  bool
}

// Deidentify groups rows by viewer id in first-appearance order and assigns
// S0001, S0002, ... in that order. Rows without an id share the unknown
// bucket. The catalog fraction divides the viewer's total view seconds by
// catalogSeconds, the summed duration of every media item. Nothing is
// returned when the export had no identity column.
func Deidentify(data *Dataset, catalogSeconds float64) []StudentEngagement {
	if !data.HasUser() {
		return nil
	}

	index := make(map[string]int)
	groups := make([]*studentGroup, 0)
	for _, row := range data.Rows {
		key := row.UserID
		if !row.HasUser {
			key = UnknownUser
		}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, &studentGroup{})
		}
		g := groups[pos]
		if frac, ok := row.ViewFraction(); ok {
			g.mean.Add(frac)
		}
		if row.ViewTime.Valid {
			g.seconds += row.ViewTime.Value
			g.viewed = true
		}
	}

	out := make([]StudentEngagement, 0, len(groups))
	for i, g := range groups {
		s := StudentEngagement{
			ID:                             PseudonymFor(i),
			AverageViewFractionWhenWatched: g.mean.Value(),
		}
		if g.viewed {
			s.ViewFractionOfTotalCatalog = Fraction(g.seconds, catalogSeconds)
		}
		out = append(out, s)
	}
	return out
}

// PseudonymFor returns the code for the zero-based group position.
func PseudonymFor(position int) string {
	return fmt.Sprintf("S%04d", position+1)
}
