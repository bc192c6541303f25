package testsupport

import (
	"path/filepath"
	"testing"

	"coursemetrics/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Output.Dir = filepath.Join(base, "output")
	cfgVal.Output.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCanvas points the test config at a Canvas API, typically an httptest server.
func WithCanvas(baseURL, token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Canvas.BaseURL = baseURL
		b.cfg.Canvas.Token = token
	}
}

// WithSQLiteExport enables the SQLite export under the test directory.
func WithSQLiteExport() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.SQLitePath = filepath.Join(b.baseDir, "export", "coursemetrics.db")
	}
}

// WithMetricsTextfile enables the Prometheus textfile under the test directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.TextfilePath = filepath.Join(b.baseDir, "metrics", "coursemetrics.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.Dir)
}
