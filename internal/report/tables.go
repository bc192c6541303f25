package report

import (
	"coursemetrics/internal/reconcile"
	"coursemetrics/internal/tabular"
)

// Column headers shared by every output format.
const (
	ColMediaTitle        = "Media Title"
	ColVideoDuration     = "Video Duration"
	ColUniqueViewers     = "# of Unique Viewers"
	ColAverageView       = "Average View %"
	ColStudentsViewing   = "% of Students Viewing"
	ColModule            = "Module"
	ColModuleViewers     = "# of Students Viewing"
	ColStudent           = "Student"
	ColAverageWhenViewed = "Average View % When Watched"
	ColViewOfTotal       = "View % of Total Video"
	ColItemTitle         = "Curriculum Title"
	ColScore             = "Score"
	ColMethod            = "Method"
)

// MediaTable builds the per-media table. Duration is in seconds.
func MediaTable(res *reconcile.Result) *tabular.Table {
	t := tabular.New(ColMediaTitle, ColVideoDuration, ColUniqueViewers, ColAverageView, ColStudentsViewing)
	for _, m := range res.Media {
		t.Append(
			tabular.Text(m.Title),
			optional(m.DurationSeconds),
			tabular.Number(float64(m.UniqueViewers)),
			optional(m.AverageViewFraction),
			optional(m.StudentsViewingFraction),
		)
	}
	return t
}

// ModuleTable builds the per-module table in curriculum order.
func ModuleTable(res *reconcile.Result) *tabular.Table {
	t := tabular.New(ColModule, ColAverageView, ColModuleViewers)
	for _, m := range res.Modules {
		t.Append(
			tabular.Text(m.Name),
			optional(m.AverageViewFraction),
			tabular.Number(float64(m.ViewerCountSum)),
		)
	}
	return t
}

// StudentTable builds the de-identified per-student table.
func StudentTable(res *reconcile.Result) *tabular.Table {
	t := tabular.New(ColStudent, ColAverageWhenViewed, ColViewOfTotal)
	for _, s := range res.Students {
		t.Append(
			tabular.Text(s.ID),
			optional(s.AverageViewFractionWhenWatched),
			optional(s.ViewFractionOfTotalCatalog),
		)
	}
	return t
}

// MatchTable lists accepted title matches.
func MatchTable(res *reconcile.Result) *tabular.Table {
	t := tabular.New(ColMediaTitle, ColItemTitle, ColModule, ColScore, ColMethod)
	for _, m := range res.Matches {
		t.Append(
			tabular.Text(m.MediaTitle),
			tabular.Text(m.ItemTitle),
			tabular.Text(m.Module),
			tabular.Number(m.Score),
			tabular.Text(string(m.Method)),
		)
	}
	return t
}

func optional(v *float64) tabular.Cell {
	if v == nil {
		return tabular.Missing()
	}
	return tabular.Number(*v)
}
