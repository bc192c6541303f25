package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"coursemetrics/internal/config"
	"coursemetrics/internal/curriculum"
	"coursemetrics/internal/engagement"
	"coursemetrics/internal/logging"
	"coursemetrics/internal/matching"
	"coursemetrics/internal/rollup"
)

// Engine runs reconciliations with a fixed configuration.
type Engine struct {
	columns engagement.Columns
	matcher *matching.Matcher
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides run id generation, used by tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine builds an engine from the matching and column settings in cfg.
// A nil cfg uses the defaults.
func NewEngine(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	cols := engagement.Columns{
		Media:       cfg.Columns.Media,
		Duration:    cfg.Columns.Duration,
		ViewTime:    cfg.Columns.ViewTime,
		AverageView: cfg.Columns.AverageView,
		User:        cfg.Columns.User,
	}
	e := &Engine{
		columns: cols.Merge(engagement.DefaultColumns()),
		matcher: matching.New(
			matching.WithThreshold(cfg.Matching.Threshold),
			matching.WithFallbackMin(cfg.Matching.FallbackMin),
			matching.WithTopK(cfg.Matching.TopK),
		),
		logger: logging.NewComponentLogger(logger, "reconcile"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run reconciles one course. Cancellation is checked between phases.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	started := e.now()
	runID := e.newID()
	ctx = logging.WithRunID(ctx, runID)
	if in.CourseID != "" {
		ctx = logging.WithCourseID(ctx, in.CourseID)
	}
	logger := logging.WithContext(ctx, e.logger)

	data, err := engagement.Extract(in.Engagement, e.columns)
	if err != nil {
		return nil, err
	}
	logger.Debug("engagement parsed",
		logging.Int("rows", len(data.Rows)),
		logging.Bool("has_user", data.HasUser()),
	)
	if len(data.Rows) == 0 {
		logging.WarnWithContext(logger, "engagement export has no rows", "engagement_empty",
			logging.String(logging.FieldImpact, "all result tables are empty"),
			logging.String(logging.FieldErrorHint, "check the export file"),
		)
	}

	media := engagement.AggregateMedia(data.Rows, data.HasUser())
	logger.Debug("media aggregated", logging.Int("media", len(media)))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	items := in.Curriculum
	if items == nil {
		items = []curriculum.Item{}
	}
	if len(items) == 0 {
		logging.WarnWithContext(logger, "curriculum is empty", "curriculum_missing",
			logging.String(logging.FieldImpact, "module table will be empty"),
			logging.String(logging.FieldErrorHint, "supply --curriculum or --course"),
		)
	}

	match := e.matcher.Match(mediaTitles(media), itemTitles(items))
	if match.FallbackUsed {
		logger.Info("fuzzy threshold not reached; fallback matching applied",
			logging.Args(logging.DecisionAttrs("match_fallback", "applied", "no candidate reached threshold")...)...,
		)
	}
	for _, p := range match.Pairs {
		reason := "token set similarity"
		if p.Method == matching.MethodExact {
			reason = "normalized titles equal"
		}
		logger.Debug("title matched",
			logging.Args(append(logging.DecisionAttrs("title_match", string(p.Method), reason),
				logging.String("media_title", media[p.MediaIndex].Title),
				logging.String("item_title", items[p.ItemIndex].Title),
				logging.Float64("score", p.Score),
			)...)...,
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	modules := rollup.Modules(media, items, match.Pairs)

	if in.ClassSize > 0 {
		engagement.ApplyClassSize(media, in.ClassSize)
	}

	students := engagement.Deidentify(data, engagement.CatalogSeconds(media))
	if students == nil {
		logger.Debug("no identity column; student table empty")
		students = []engagement.StudentEngagement{}
	}

	result := &Result{
		RunID:    runID,
		CourseID: in.CourseID,
		Media:    media,
		Modules:  modules,
		Students: students,
		Pairs:    match.Pairs,
		Matches:  resolveMatches(media, items, match.Pairs),
	}
	result.Summary = summarize(media, items, students, match, in.ClassSize)
	result.Summary.StartedAt = started
	result.Summary.Duration = e.now().Sub(started)

	if n := result.Summary.UnmatchedMedia; n > 0 && len(items) > 0 {
		logging.WarnWithContext(logger, "some media titles did not match the curriculum", "media_unmatched",
			logging.Int("unmatched", n),
			logging.String(logging.FieldImpact, "unmatched media are excluded from module totals"),
			logging.String(logging.FieldErrorHint, "compare titles with `coursemetrics normalize`"),
		)
	}
	logger.Info("reconciliation complete",
		logging.Int("media", result.Summary.MediaCount),
		logging.Int("matched", result.Summary.MatchedMedia),
		logging.Int("modules", len(modules)),
		logging.Int("students", len(students)),
		logging.Duration("duration", result.Summary.Duration),
	)
	return result, nil
}

func mediaTitles(media []engagement.MediaRecord) []string {
	out := make([]string, len(media))
	for i, m := range media {
		out[i] = m.Title
	}
	return out
}

func itemTitles(items []curriculum.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func resolveMatches(media []engagement.MediaRecord, items []curriculum.Item, pairs []matching.Pair) []Match {
	out := make([]Match, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Match{
			MediaTitle: media[p.MediaIndex].Title,
			ItemTitle:  items[p.ItemIndex].Title,
			Module:     items[p.ItemIndex].ModuleName,
			Score:      p.Score,
			Method:     p.Method,
		})
	}
	return out
}

func summarize(media []engagement.MediaRecord, items []curriculum.Item, students []engagement.StudentEngagement, match matching.Result, classSize int) Summary {
	s := Summary{
		MediaCount:      len(media),
		CurriculumItems: len(items),
		MatchedMedia:    len(match.Pairs),
		UnmatchedMedia:  len(match.UnmatchedMedia),
		UnmatchedItems:  len(match.UnmatchedItems),
		UnmatchedTitles: make([]string, 0, len(match.UnmatchedMedia)),
		FallbackUsed:    match.FallbackUsed,
	}
	for _, i := range match.UnmatchedMedia {
		s.UnmatchedTitles = append(s.UnmatchedTitles, media[i].Title)
	}

	var mean engagement.Mean
	for _, m := range media {
		if m.AverageViewFraction != nil {
			mean.Add(*m.AverageViewFraction)
		}
	}
	s.AverageEngagement = mean.Value()

	switch {
	case classSize > 0:
		s.StudentCount = classSize
		s.StudentCountSource = StudentCountClassSize
	case len(students) > 0:
		s.StudentCount = len(students)
		s.StudentCountSource = StudentCountViewers
	default:
		s.StudentCountSource = StudentCountUnknown
	}
	return s
}
