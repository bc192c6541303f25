package testsupport

import "coursemetrics/internal/tabular"

// EngagementRow is one session in a synthetic engagement export.
type EngagementRow struct {
	Title    string
	Duration string
	ViewTime string
	User     string
}

// EngagementHeader is the header used by EngagementTable.
var EngagementHeader = []string{"Media Name", "Duration", "Total View Time", "User Email"}

// EngagementTable builds an export with media, duration, view time and user
// columns.
func EngagementTable(rows ...EngagementRow) *tabular.Table {
	table := tabular.New(EngagementHeader...)
	for _, r := range rows {
		table.AppendStrings(r.Title, r.Duration, r.ViewTime, r.User)
	}
	return table
}

// AnonymousEngagementTable builds an export without a user column.
func AnonymousEngagementTable(rows ...EngagementRow) *tabular.Table {
	table := tabular.New(EngagementHeader[:3]...)
	for _, r := range rows {
		table.AppendStrings(r.Title, r.Duration, r.ViewTime)
	}
	return table
}

// LectureOneRows are two viewers of a ten minute lecture, one watching half.
func LectureOneRows() []EngagementRow {
	return []EngagementRow{
		{Title: "Lecture 1", Duration: "10:00", ViewTime: "05:00", User: "a"},
		{Title: "Lecture 1", Duration: "10:00", ViewTime: "10:00", User: "b"},
	}
}

// LectureOneCSV is LectureOneRows in CSV form.
const LectureOneCSV = "Media Name,Duration,Total View Time,User Email\n" +
	"Lecture 1,10:00,05:00,a\n" +
	"Lecture 1,10:00,10:00,b\n"
