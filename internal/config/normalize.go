package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeCanvas()
	c.normalizeColumns()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeSinks(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeCanvas() {
	c.Canvas.Token = strings.TrimSpace(c.Canvas.Token)
	if c.Canvas.Token == "" {
		if value, ok := os.LookupEnv(canvasTokenEnv); ok {
			c.Canvas.Token = strings.TrimSpace(value)
		}
	}
	c.Canvas.BaseURL = strings.TrimSpace(c.Canvas.BaseURL)
	if c.Canvas.BaseURL == "" {
		if value, ok := os.LookupEnv(canvasBaseURLEnv); ok {
			c.Canvas.BaseURL = strings.TrimSpace(value)
		}
	}
	c.Canvas.BaseURL = strings.TrimRight(c.Canvas.BaseURL, "/")
	if c.Canvas.TimeoutSeconds <= 0 {
		c.Canvas.TimeoutSeconds = defaultCanvasTimeout
	}
	if c.Canvas.PageSize <= 0 {
		c.Canvas.PageSize = defaultCanvasPageSize
	}
}

func (c *Config) normalizeColumns() {
	clean := func(values []string) []string {
		out := make([]string, 0, len(values))
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				out = append(out, v)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	c.Columns.Media = clean(c.Columns.Media)
	c.Columns.Duration = clean(c.Columns.Duration)
	c.Columns.ViewTime = clean(c.Columns.ViewTime)
	c.Columns.AverageView = clean(c.Columns.AverageView)
	c.Columns.User = clean(c.Columns.User)
}

func (c *Config) normalizeOutput() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	if strings.TrimSpace(c.Output.Dir) != "" {
		dir, err := expandPath(strings.TrimSpace(c.Output.Dir))
		if err != nil {
			return fmt.Errorf("output.dir: %w", err)
		}
		c.Output.Dir = dir
	}
	c.Output.Prefix = strings.TrimSpace(c.Output.Prefix)
	return nil
}

func (c *Config) normalizeSinks() error {
	var err error
	if c.Export.SQLitePath, err = expandPath(strings.TrimSpace(c.Export.SQLitePath)); err != nil {
		return fmt.Errorf("export.sqlite_path: %w", err)
	}
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	c.Metrics.Job = strings.TrimSpace(c.Metrics.Job)
	if c.Metrics.Job == "" {
		c.Metrics.Job = defaultMetricsJob
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
