package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCanvasNotConfigured is returned when a Canvas operation lacks credentials.
var ErrCanvasNotConfigured = errors.New("canvas is not configured")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateCanvas(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.Threshold < 0 || m.Threshold > 100 {
		return errors.New("matching.threshold must be between 0 and 100")
	}
	if m.FallbackMin < 0 || m.FallbackMin > 100 {
		return errors.New("matching.fallback_min must be between 0 and 100")
	}
	if m.FallbackMin > m.Threshold {
		return fmt.Errorf("matching.fallback_min (%v) must not exceed matching.threshold (%v)", m.FallbackMin, m.Threshold)
	}
	if m.TopK < 1 {
		return errors.New("matching.top_k must be at least 1")
	}
	return nil
}

func (c *Config) validateCanvas() error {
	if c.Canvas.PageSize > maxCanvasPageSize {
		return fmt.Errorf("canvas.page_size must be at most %d", maxCanvasPageSize)
	}
	if c.Canvas.BaseURL != "" && !strings.HasPrefix(c.Canvas.BaseURL, "http://") && !strings.HasPrefix(c.Canvas.BaseURL, "https://") {
		return fmt.Errorf("canvas.base_url must start with http:// or https://, got %q", c.Canvas.BaseURL)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case "auto", "table", "json", "csv":
		return nil
	default:
		return fmt.Errorf("output.format: unsupported value %q (want auto, table, json or csv)", c.Output.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
