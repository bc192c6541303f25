package engagement

import (
	"slices"

	"coursemetrics/internal/tabular"
)

// Columns lists the header variants accepted for each semantic role.
type Columns struct {
	Media       []string `toml:"media"`
	Duration    []string `toml:"duration"`
	ViewTime    []string `toml:"view_time"`
	AverageView []string `toml:"average_view"`
	User        []string `toml:"user"`
}

// DefaultColumns returns the built-in header vocabulary.
func DefaultColumns() Columns {
	return Columns{
		Media:       []string{"media name", "media title", "video title", "title", "name"},
		Duration:    []string{"duration", "video duration", "media duration", "length"},
		ViewTime:    []string{"total view time", "total viewtime", "total watch time", "view time"},
		AverageView: []string{"average view time", "avg view time", "avg watch time", "average watch time"},
		User:        []string{"user email", "user name", "email", "user", "viewer", "username"},
	}
}

// Merge fills empty roles in c from fallback.
func (c Columns) Merge(fallback Columns) Columns {
	pick := func(primary, backup []string) []string {
		if len(primary) > 0 {
			return slices.Clone(primary)
		}
		return slices.Clone(backup)
	}
	return Columns{
		Media:       pick(c.Media, fallback.Media),
		Duration:    pick(c.Duration, fallback.Duration),
		ViewTime:    pick(c.ViewTime, fallback.ViewTime),
		AverageView: pick(c.AverageView, fallback.AverageView),
		User:        pick(c.User, fallback.User),
	}
}

// Schema records which table columns were resolved for each role. Optional
// roles hold -1 when absent.
type Schema struct {
	Media       int
	Duration    int
	ViewTime    int
	AverageView int
	User        int
}

// HasUser reports whether a user identity column was found.
func (s Schema) HasUser() bool { return s.User >= 0 }

// HasAverageView reports whether an average view time column was found.
func (s Schema) HasAverageView() bool { return s.AverageView >= 0 }

// ResolveSchema locates every role in the table header. Media, duration and
// view time are required.
func ResolveSchema(table *tabular.Table, cols Columns) (Schema, error) {
	schema := Schema{AverageView: -1, User: -1}
	var err error
	if schema.Media, _, err = table.Resolve(cols.Media, true); err != nil {
		return Schema{}, err
	}
	if schema.Duration, _, err = table.Resolve(cols.Duration, true); err != nil {
		return Schema{}, err
	}
	if schema.ViewTime, _, err = table.Resolve(cols.ViewTime, true); err != nil {
		return Schema{}, err
	}
	if idx, ok, _ := table.Resolve(cols.AverageView, false); ok {
		schema.AverageView = idx
	}
	if idx, ok, _ := table.Resolve(cols.User, false); ok {
		schema.User = idx
	}
	return schema, nil
}
