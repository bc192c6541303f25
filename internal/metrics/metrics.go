// Package metrics records reconciliation run statistics as Prometheus series
// and writes them to a node-exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"coursemetrics/internal/matching"
	"coursemetrics/internal/reconcile"
	"coursemetrics/internal/textutil"
)

const (
	defaultNamespace = "coursemetrics"
	defaultJob       = "coursemetrics"
)

// Recorder owns a private registry so textfiles contain only run series.
type Recorder struct {
	namespace string
	job       string
	registry  *prometheus.Registry

	runs              *prometheus.CounterVec
	media             *prometheus.GaugeVec
	matchedMedia      *prometheus.GaugeVec
	unmatchedMedia    *prometheus.GaugeVec
	curriculumItems   *prometheus.GaugeVec
	modules           *prometheus.GaugeVec
	students          *prometheus.GaugeVec
	averageEngagement *prometheus.GaugeVec
	matches           *prometheus.GaugeVec
	runDuration       *prometheus.GaugeVec
	lastRun           *prometheus.GaugeVec
}

// NewRecorder creates a recorder with default configuration.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		job:       defaultJob,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.initializeMetrics()
	return r
}

func (r *Recorder) initializeMetrics() {
	auto := promauto.With(r.registry)
	labels := []string{"job", "course"}

	gauge := func(name, help string, extra ...string) *prometheus.GaugeVec {
		return auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: r.namespace,
			Name:      name,
			Help:      help,
		}, append(append([]string(nil), labels...), extra...))
	}

	r.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "runs_total",
		Help:      "Reconciliation runs recorded by this process",
	}, labels)
	r.media = gauge("media", "Distinct media titles in the engagement export")
	r.matchedMedia = gauge("matched_media", "Media titles matched to a curriculum item")
	r.unmatchedMedia = gauge("unmatched_media", "Media titles left unmatched")
	r.curriculumItems = gauge("curriculum_items", "Curriculum items considered for matching")
	r.modules = gauge("modules", "Modules with at least one matched media title")
	r.students = gauge("students", "Student count (class size when known)")
	r.averageEngagement = gauge("average_engagement_ratio", "Mean per-media average view fraction")
	r.matches = gauge("matches", "Accepted matches by method", "method")
	r.runDuration = gauge("run_duration_seconds", "Wall time of the last run")
	r.lastRun = gauge("last_run_timestamp_seconds", "Start time of the last run")
}

// Record sets every series from res.
func (r *Recorder) Record(res *reconcile.Result) {
	course := textutil.SanitizeToken(res.CourseID)
	lv := prometheus.Labels{"job": r.job, "course": course}
	s := res.Summary

	r.runs.With(lv).Inc()
	r.media.With(lv).Set(float64(s.MediaCount))
	r.matchedMedia.With(lv).Set(float64(s.MatchedMedia))
	r.unmatchedMedia.With(lv).Set(float64(s.UnmatchedMedia))
	r.curriculumItems.With(lv).Set(float64(s.CurriculumItems))
	r.modules.With(lv).Set(float64(len(res.Modules)))
	r.students.With(lv).Set(float64(s.StudentCount))
	if s.AverageEngagement != nil {
		r.averageEngagement.With(lv).Set(*s.AverageEngagement)
	}
	r.runDuration.With(lv).Set(s.Duration.Seconds())
	if !s.StartedAt.IsZero() {
		r.lastRun.With(lv).Set(float64(s.StartedAt.Unix()))
	}

	counts := map[matching.Method]int{
		matching.MethodExact:    0,
		matching.MethodFuzzy:    0,
		matching.MethodFallback: 0,
	}
	for _, m := range res.Matches {
		counts[m.Method]++
	}
	for method, n := range counts {
		r.matches.With(prometheus.Labels{"job": r.job, "course": course, "method": string(method)}).Set(float64(n))
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the registry in text exposition format. The file is
// replaced atomically so a collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
