package reconcile

import (
	"time"

	"coursemetrics/internal/curriculum"
	"coursemetrics/internal/engagement"
	"coursemetrics/internal/matching"
	"coursemetrics/internal/rollup"
	"coursemetrics/internal/tabular"
)

// Input bundles everything a run needs.
type Input struct {
	Engagement *tabular.Table
	Curriculum []curriculum.Item
	// ClassSize is the enrolled student count, zero when unknown.
	ClassSize int
	// CourseID labels logs and exports; optional.
	CourseID string
}

// Match is an accepted pair resolved to titles.
type Match struct {
	MediaTitle string          `json:"media_title"`
	ItemTitle  string          `json:"item_title"`
	Module     string          `json:"module"`
	Score      float64         `json:"score"`
	Method     matching.Method `json:"method"`
}

// Summary carries the headline numbers of a run.
type Summary struct {
	MediaCount        int      `json:"media_count"`
	CurriculumItems   int      `json:"curriculum_items"`
	MatchedMedia      int      `json:"matched_media"`
	UnmatchedMedia    int      `json:"unmatched_media"`
	UnmatchedTitles   []string `json:"unmatched_titles"`
	UnmatchedItems    int      `json:"unmatched_items"`
	FallbackUsed      bool     `json:"fallback_used"`
	AverageEngagement *float64 `json:"average_engagement"`

	// StudentCount is the class size when known, else the number of
	// de-identified viewers.
	StudentCount       int           `json:"student_count"`
	StudentCountSource string        `json:"student_count_source"`
	StartedAt          time.Time     `json:"started_at"`
	Duration           time.Duration `json:"duration_ns"`
}

const (
	StudentCountClassSize = "class_size"
	StudentCountViewers   = "viewers"
	StudentCountUnknown   = "unknown"
)

// Result is the immutable output of one run.
type Result struct {
	RunID    string                         `json:"run_id"`
	CourseID string                         `json:"course_id,omitempty"`
	Media    []engagement.MediaRecord       `json:"media"`
	Modules  []rollup.ModuleMetric          `json:"modules"`
	Students []engagement.StudentEngagement `json:"students"`
	Pairs    []matching.Pair                `json:"-"`
	Matches  []Match                        `json:"matches"`
	Summary  Summary                        `json:"summary"`
}
