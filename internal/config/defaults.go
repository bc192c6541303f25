package config

const (
	defaultConfigPath       = "~/.config/coursemetrics/config.toml"
	projectConfigName       = "coursemetrics.toml"
	defaultCanvasTimeout    = 30
	defaultCanvasPageSize   = 100
	defaultMatchThreshold   = 80.0
	defaultMatchFallbackMin = 70.0
	defaultMatchTopK        = 6
	defaultOutputFormat     = "auto"
	defaultOutputPrefix     = "echo_"
	defaultMetricsJob       = "coursemetrics"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	maxCanvasPageSize       = 100
	canvasTokenEnv          = "CANVAS_TOKEN"
	canvasBaseURLEnv        = "CANVAS_BASE_URL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Canvas: Canvas{
			TimeoutSeconds: defaultCanvasTimeout,
			PageSize:       defaultCanvasPageSize,
		},
		Matching: Matching{
			Threshold:   defaultMatchThreshold,
			FallbackMin: defaultMatchFallbackMin,
			TopK:        defaultMatchTopK,
		},
		Output: Output{
			Format: defaultOutputFormat,
			Prefix: defaultOutputPrefix,
		},
		Metrics: Metrics{
			Job: defaultMetricsJob,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
