package reconcile_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"coursemetrics/internal/config"
	"coursemetrics/internal/curriculum"
	"coursemetrics/internal/logging"
	"coursemetrics/internal/matching"
	"coursemetrics/internal/reconcile"
	"coursemetrics/internal/tabular"
	"coursemetrics/internal/testsupport"
)

func newEngine(t *testing.T) *reconcile.Engine {
	t.Helper()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return reconcile.NewEngine(nil, logging.NewNop(),
		reconcile.WithClock(func() time.Time { return clock }),
		reconcile.WithIDGenerator(func() string { return "run-1" }),
	)
}

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, *got, want)
	}
}

func TestRunLectureOneScenario(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.Run(context.Background(), reconcile.Input{
		Engagement: testsupport.EngagementTable(testsupport.LectureOneRows()...),
		Curriculum: testsupport.WeekOneCurriculum(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", result.RunID)
	}

	if len(result.Media) != 1 {
		t.Fatalf("len(Media) = %d, want 1", len(result.Media))
	}
	m := result.Media[0]
	if m.Title != "Lecture 1" || m.UniqueViewers != 2 {
		t.Errorf("media = %+v", m)
	}
	approx(t, "duration", m.DurationSeconds, 600)
	approx(t, "media average", m.AverageViewFraction, 0.75)

	if len(result.Pairs) != 1 || result.Pairs[0].Method != matching.MethodExact || result.Pairs[0].Score != 100 {
		t.Fatalf("Pairs = %+v, want one exact pair", result.Pairs)
	}
	if len(result.Matches) != 1 || result.Matches[0].Module != "Week 1" {
		t.Fatalf("Matches = %+v", result.Matches)
	}

	if len(result.Modules) != 1 {
		t.Fatalf("len(Modules) = %d, want 1", len(result.Modules))
	}
	if result.Modules[0].Name != "Week 1" || result.Modules[0].ViewerCountSum != 2 {
		t.Errorf("module = %+v", result.Modules[0])
	}
	approx(t, "module average", result.Modules[0].AverageViewFraction, 0.75)

	if len(result.Students) != 2 {
		t.Fatalf("len(Students) = %d, want 2", len(result.Students))
	}
	s1, s2 := result.Students[0], result.Students[1]
	if s1.ID != "S0001" || s2.ID != "S0002" {
		t.Errorf("student ids = %s, %s", s1.ID, s2.ID)
	}
	approx(t, "S0001 when watched", s1.AverageViewFractionWhenWatched, 0.5)
	approx(t, "S0001 of catalog", s1.ViewFractionOfTotalCatalog, 0.5)
	approx(t, "S0002 when watched", s2.AverageViewFractionWhenWatched, 1.0)
	approx(t, "S0002 of catalog", s2.ViewFractionOfTotalCatalog, 1.0)

	sum := result.Summary
	if sum.MediaCount != 1 || sum.MatchedMedia != 1 || sum.UnmatchedMedia != 0 || sum.CurriculumItems != 1 {
		t.Errorf("summary counts = %+v", sum)
	}
	if sum.StudentCount != 2 || sum.StudentCountSource != reconcile.StudentCountViewers {
		t.Errorf("student count = %d (%s), want 2 (viewers)", sum.StudentCount, sum.StudentCountSource)
	}
	approx(t, "average engagement", sum.AverageEngagement, 0.75)
}

func TestRunWithClassSize(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.Run(context.Background(), reconcile.Input{
		Engagement: testsupport.EngagementTable(testsupport.LectureOneRows()...),
		Curriculum: testsupport.WeekOneCurriculum(),
		ClassSize:  4,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	approx(t, "students viewing", result.Media[0].StudentsViewingFraction, 0.5)
	if result.Summary.StudentCount != 4 || result.Summary.StudentCountSource != reconcile.StudentCountClassSize {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestRunWithoutCurriculum(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.Run(context.Background(), reconcile.Input{
		Engagement: testsupport.EngagementTable(testsupport.LectureOneRows()...),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Media) != 1 {
		t.Fatalf("len(Media) = %d, want 1", len(result.Media))
	}
	if result.Modules == nil || len(result.Modules) != 0 {
		t.Fatalf("Modules = %#v, want empty non-nil", result.Modules)
	}
	if result.Summary.UnmatchedMedia != 1 || len(result.Summary.UnmatchedTitles) != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestRunWithoutUserColumn(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.Run(context.Background(), reconcile.Input{
		Engagement: testsupport.AnonymousEngagementTable(testsupport.LectureOneRows()...),
		Curriculum: testsupport.WeekOneCurriculum(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Students) != 0 || result.Students == nil {
		t.Fatalf("Students = %#v, want empty non-nil", result.Students)
	}
	if result.Media[0].UniqueViewers != 2 {
		t.Errorf("UniqueViewers = %d, want 2 (rows with view time)", result.Media[0].UniqueViewers)
	}
	if result.Summary.StudentCountSource != reconcile.StudentCountUnknown {
		t.Errorf("StudentCountSource = %q, want unknown", result.Summary.StudentCountSource)
	}
}

func TestRunMissingMediaColumn(t *testing.T) {
	engine := newEngine(t)
	table := tabular.New("Foo", "Duration", "Total View Time")
	table.AppendStrings("x", "1:00", "0:30")
	_, err := engine.Run(context.Background(), reconcile.Input{Engagement: table})
	if !errors.Is(err, tabular.ErrMissingColumn) {
		t.Fatalf("Run() error = %v, want ErrMissingColumn", err)
	}
}

func TestRunEmptyExport(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.Run(context.Background(), reconcile.Input{Engagement: tabular.New()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Media) != 0 || len(result.Modules) != 0 || len(result.Students) != 0 {
		t.Fatalf("expected empty tables, got %+v", result)
	}
	if result.Summary.AverageEngagement != nil {
		t.Errorf("AverageEngagement = %v, want nil", *result.Summary.AverageEngagement)
	}
}

func TestRunFuzzyAndUnmatched(t *testing.T) {
	engine := newEngine(t)
	table := testsupport.EngagementTable(
		testsupport.EngagementRow{Title: "Intro to Statistics (12:30) - 123456", Duration: "12:30", ViewTime: "6:15", User: "a"},
		testsupport.EngagementRow{Title: "Campus tour", Duration: "3:00", ViewTime: "3:00", User: "b"},
	)
	items := []curriculum.Item{
		testsupport.Item("Week 1", 1, "Intro to Statistics", 1),
		testsupport.Item("Week 2", 2, "Regression basics", 1),
	}
	result, err := engine.Run(context.Background(), reconcile.Input{Engagement: table, Curriculum: items})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Matches) != 1 || result.Matches[0].ItemTitle != "Intro to Statistics" {
		t.Fatalf("Matches = %+v", result.Matches)
	}
	if got := strings.Join(result.Summary.UnmatchedTitles, ","); got != "Campus tour" {
		t.Errorf("UnmatchedTitles = %q, want Campus tour", got)
	}
	if result.Summary.UnmatchedItems != 1 {
		t.Errorf("UnmatchedItems = %d, want 1", result.Summary.UnmatchedItems)
	}
}

func TestRunCustomColumns(t *testing.T) {
	cfg := config.Default()
	cfg.Columns.Media = []string{"clip"}
	engine := reconcile.NewEngine(&cfg, logging.NewNop())
	table := tabular.New("Clip", "Duration", "Total View Time")
	table.AppendStrings("Lecture 1", "10:00", "5:00")
	result, err := engine.Run(context.Background(), reconcile.Input{Engagement: table})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Media) != 1 || result.Media[0].Title != "Lecture 1" {
		t.Fatalf("Media = %+v", result.Media)
	}
	if result.RunID == "" {
		t.Error("expected generated run id")
	}
}

func TestRunCancelled(t *testing.T) {
	engine := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Run(ctx, reconcile.Input{
		Engagement: testsupport.EngagementTable(testsupport.LectureOneRows()...),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
