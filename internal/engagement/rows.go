package engagement

import (
	"fmt"
	"strings"

	"coursemetrics/internal/tabular"
	"coursemetrics/internal/timecode"
)

// RawRow is one viewing session from the export.
type RawRow struct {
	Index       int
	MediaTitle  string
	Duration    timecode.Seconds
	ViewTime    timecode.Seconds
	AverageView timecode.Seconds
	UserID      string
	HasUser     bool
}

// ViewFraction returns view time over duration clamped to [0,1]. The result
// is invalid when either side is unusable or the duration is zero.
func (r RawRow) ViewFraction() (float64, bool) {
	if !r.Duration.Usable() || !r.ViewTime.Usable() || r.Duration.Value <= 0 {
		return 0, false
	}
	return clamp01(r.ViewTime.Value / r.Duration.Value), true
}

// Dataset is the parsed form of an engagement export.
type Dataset struct {
	Schema Schema
	Rows   []RawRow
}

// HasUser reports whether rows carry viewer identities.
func (d *Dataset) HasUser() bool { return d != nil && d.Schema.HasUser() }

// Extract resolves the export's columns and parses every row. A table with no
// header at all yields an empty dataset rather than a missing column error.
func Extract(table *tabular.Table, cols Columns) (*Dataset, error) {
	if table == nil || len(table.Columns) == 0 {
		return &Dataset{Schema: Schema{Media: -1, Duration: -1, ViewTime: -1, AverageView: -1, User: -1}}, nil
	}
	schema, err := ResolveSchema(table, cols)
	if err != nil {
		return nil, fmt.Errorf("resolve engagement columns: %w", err)
	}

	rows := make([]RawRow, 0, table.Len())
	for i := range table.Len() {
		row := RawRow{
			Index:      i,
			MediaTitle: table.Cell(i, schema.Media).String(),
			Duration:   usable(timecode.Parse(table.Cell(i, schema.Duration))),
			ViewTime:   usable(timecode.Parse(table.Cell(i, schema.ViewTime))),
		}
		if schema.HasAverageView() {
			row.AverageView = usable(timecode.Parse(table.Cell(i, schema.AverageView)))
		}
		if schema.HasUser() {
			id := strings.TrimSpace(table.Cell(i, schema.User).String())
			row.UserID = id
			row.HasUser = id != ""
		}
		rows = append(rows, row)
	}
	return &Dataset{Schema: schema, Rows: rows}, nil
}

func usable(s timecode.Seconds) timecode.Seconds {
	if !s.Usable() {
		return timecode.Missing
	}
	return s
}
