package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"coursemetrics/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CANVAS_TOKEN", "")
	t.Setenv("CANVAS_BASE_URL", "")
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "coursemetrics", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if cfg.Matching.Threshold != 80 || cfg.Matching.FallbackMin != 70 || cfg.Matching.TopK != 6 {
		t.Fatalf("unexpected matching defaults: %+v", cfg.Matching)
	}
	if cfg.Output.Format != "auto" || cfg.Output.Prefix != "echo_" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Canvas.PageSize != 100 || cfg.Canvas.TimeoutSeconds != 30 {
		t.Fatalf("unexpected canvas defaults: %+v", cfg.Canvas)
	}
	if err := cfg.CanvasConfigured(); !errors.Is(err, config.ErrCanvasNotConfigured) {
		t.Fatalf("CanvasConfigured() = %v, want ErrCanvasNotConfigured", err)
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	isolate(t)
	t.Setenv("CANVAS_TOKEN", " secret ")
	t.Setenv("CANVAS_BASE_URL", "https://school.instructure.com/")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Canvas.Token != "secret" {
		t.Fatalf("token = %q, want secret", cfg.Canvas.Token)
	}
	if cfg.Canvas.BaseURL != "https://school.instructure.com" {
		t.Fatalf("base url = %q", cfg.Canvas.BaseURL)
	}
	if err := cfg.CanvasConfigured(); err != nil {
		t.Fatalf("CanvasConfigured() = %v, want nil", err)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[canvas]
base_url = "https://lms.example.edu"
token = "file-token"

[matching]
threshold = 85.0
fallback_min = 60.0
top_k = 3

[columns]
media = [" Clip Title ", ""]

[output]
dir = "~/reports"
format = "JSON"

[export]
sqlite_path = "~/runs.db"

[logging]
level = "DEBUG"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CANVAS_TOKEN", "env-token")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Canvas.Token != "file-token" {
		t.Fatalf("file token should win over env, got %q", cfg.Canvas.Token)
	}
	if cfg.Matching.Threshold != 85 || cfg.Matching.FallbackMin != 60 || cfg.Matching.TopK != 3 {
		t.Fatalf("matching = %+v", cfg.Matching)
	}
	if len(cfg.Columns.Media) != 1 || cfg.Columns.Media[0] != "clip title" {
		t.Fatalf("columns.media = %q", cfg.Columns.Media)
	}
	if cfg.Columns.Duration != nil {
		t.Fatalf("columns.duration = %q, want nil", cfg.Columns.Duration)
	}
	if cfg.Output.Dir != filepath.Join(home, "reports") || cfg.Output.Format != "json" {
		t.Fatalf("output = %+v", cfg.Output)
	}
	if cfg.Export.SQLitePath != filepath.Join(home, "runs.db") {
		t.Fatalf("export.sqlite_path = %q", cfg.Export.SQLitePath)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("coursemetrics.toml", []byte("[matching]\ntop_k = 2\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "coursemetrics.toml" {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Matching.TopK != 2 {
		t.Fatalf("top_k = %d, want 2", cfg.Matching.TopK)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[matching]\nthreshhold = 90\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"threshold range", func(c *config.Config) { c.Matching.Threshold = 120 }, "matching.threshold"},
		{"fallback above threshold", func(c *config.Config) { c.Matching.FallbackMin = 90 }, "matching.fallback_min"},
		{"top k", func(c *config.Config) { c.Matching.TopK = 0 }, "matching.top_k"},
		{"page size", func(c *config.Config) { c.Canvas.PageSize = 500 }, "canvas.page_size"},
		{"base url scheme", func(c *config.Config) { c.Canvas.BaseURL = "school.instructure.com" }, "canvas.base_url"},
		{"output format", func(c *config.Config) { c.Output.Format = "xml" }, "output.format"},
		{"log format", func(c *config.Config) { c.Logging.Format = "text" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	defaults := config.Default()
	if cfg.Matching != defaults.Matching {
		t.Fatalf("sample matching = %+v, want defaults %+v", cfg.Matching, defaults.Matching)
	}
}
