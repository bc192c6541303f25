package engagement

// MediaRecord aggregates every session for one raw media title.
type MediaRecord struct {
	Title                   string   `json:"media_title"`
	DurationSeconds         *float64 `json:"duration_seconds"`
	UniqueViewers           int      `json:"unique_viewers"`
	AverageViewFraction     *float64 `json:"average_view_fraction"`
	StudentsViewingFraction *float64 `json:"students_viewing_fraction,omitempty"`
}

type mediaGroup struct {
	record  MediaRecord
	viewers map[string]struct{}
	views   int
	mean    Mean
}

// AggregateMedia groups rows by raw title in first-appearance order.
//
// Duration is the first valid duration seen for the title. When identities
// are available the viewer count is the number of distinct non-empty ids;
// otherwise it counts rows with a valid view time, which overcounts repeat
// anonymous sessions. The average view fraction is the unweighted mean of the
// per-row fractions.
func AggregateMedia(rows []RawRow, withUsers bool) []MediaRecord {
	index := make(map[string]int)
	groups := make([]*mediaGroup, 0)

	for _, row := range rows {
		pos, ok := index[row.MediaTitle]
		if !ok {
			pos = len(groups)
			index[row.MediaTitle] = pos
			groups = append(groups, &mediaGroup{
				record:  MediaRecord{Title: row.MediaTitle},
				viewers: make(map[string]struct{}),
			})
		}
		g := groups[pos]

		if g.record.DurationSeconds == nil && row.Duration.Valid {
			g.record.DurationSeconds = row.Duration.Ptr()
		}
		if row.HasUser {
			g.viewers[row.UserID] = struct{}{}
		}
		if row.ViewTime.Valid {
			g.views++
		}
		if frac, ok := row.ViewFraction(); ok {
			g.mean.Add(frac)
		}
	}

	out := make([]MediaRecord, 0, len(groups))
	for _, g := range groups {
		rec := g.record
		if withUsers {
			rec.UniqueViewers = len(g.viewers)
		} else {
			rec.UniqueViewers = g.views
		}
		rec.AverageViewFraction = g.mean.Value()
		out = append(out, rec)
	}
	return out
}

// CatalogSeconds sums the known durations of every media record.
func CatalogSeconds(media []MediaRecord) float64 {
	var total float64
	for _, m := range media {
		if m.DurationSeconds != nil {
			total += *m.DurationSeconds
		}
	}
	return total
}

// ApplyClassSize fills StudentsViewingFraction from a known class size.
func ApplyClassSize(media []MediaRecord, classSize int) {
	if classSize <= 0 {
		return
	}
	for i := range media {
		media[i].StudentsViewingFraction = Fraction(float64(media[i].UniqueViewers), float64(classSize))
	}
}
