package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Canvas contains configuration for the Canvas LMS API.
type Canvas struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PageSize       int    `toml:"page_size"`
}

// Matching contains the title matcher parameters. Scores are on a 0-100 scale.
type Matching struct {
	Threshold   float64 `toml:"threshold"`
	FallbackMin float64 `toml:"fallback_min"`
	TopK        int     `toml:"top_k"`
}

// Columns overrides the header variants accepted for each engagement role.
// Empty lists keep the built-in vocabulary.
type Columns struct {
	Media       []string `toml:"media"`
	Duration    []string `toml:"duration"`
	ViewTime    []string `toml:"view_time"`
	AverageView []string `toml:"average_view"`
	User        []string `toml:"user"`
}

// Output controls where and how result tables are written.
type Output struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Prefix string `toml:"prefix"`
}

// Export configures the optional SQLite export.
type Export struct {
	SQLitePath string `toml:"sqlite_path"`
}

// Metrics configures the optional Prometheus textfile.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"`
	Job          string `toml:"job"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for coursemetrics.
//
// Configuration sections:
//   - Canvas: course structure and enrollment API access
//   - Matching: title matcher thresholds
//   - Columns: engagement export header vocabulary
//   - Output: result table destination and format
//   - Export: SQLite export destination
//   - Metrics: Prometheus textfile destination
//   - Logging: log format, level and optional file
type Config struct {
	Canvas   Canvas   `toml:"canvas"`
	Matching Matching `toml:"matching"`
	Columns  Columns  `toml:"columns"`
	Output   Output   `toml:"output"`
	Export   Export   `toml:"export"`
	Metrics  Metrics  `toml:"metrics"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// CanvasConfigured reports an error describing what is missing before the
// Canvas API can be used.
func (c *Config) CanvasConfigured() error {
	var missing []string
	if strings.TrimSpace(c.Canvas.BaseURL) == "" {
		missing = append(missing, "canvas.base_url (or CANVAS_BASE_URL)")
	}
	if strings.TrimSpace(c.Canvas.Token) == "" {
		missing = append(missing, "canvas.token (or CANVAS_TOKEN)")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCanvasNotConfigured, strings.Join(missing, ", "))
}
