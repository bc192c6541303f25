package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"coursemetrics/internal/config"
	"coursemetrics/internal/curriculum"
	"coursemetrics/internal/export"
	"coursemetrics/internal/logging"
	"coursemetrics/internal/metrics"
	"coursemetrics/internal/reconcile"
	"coursemetrics/internal/report"
	"coursemetrics/internal/tabular"
)

type reconcileOptions struct {
	engagementPath  string
	curriculumPath  string
	courseID        string
	classSize       int
	format          string
	outputDir       string
	sqlitePath      string
	metricsTextfile string
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile [engagement.csv]",
		Short: "Attribute engagement to curriculum modules and de-identified students",
		Long: "Reads a video engagement export, matches media titles to the course curriculum " +
			"(from --curriculum or the Canvas course given by --course), and reports per-media, " +
			"per-module and per-student engagement.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.engagementPath = args[0]
			}
			if strings.TrimSpace(opts.engagementPath) == "" {
				return errors.New("an engagement export is required (argument or --engagement)")
			}
			return runReconcile(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.engagementPath, "engagement", "e", "", "Engagement export CSV")
	flags.StringVar(&opts.curriculumPath, "curriculum", "", "Curriculum CSV or JSON file")
	flags.StringVar(&opts.courseID, "course", "", "Canvas course id (curriculum and class size source)")
	flags.IntVar(&opts.classSize, "class-size", 0, "Enrolled student count (overrides Canvas)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: auto, table, json, csv (default from config)")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for CSV output (default from config)")
	flags.StringVar(&opts.sqlitePath, "sqlite", "", "Append the run to this SQLite database")
	flags.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus run metrics to this file")

	return cmd
}

func runReconcile(cmd *cobra.Command, cctx *commandContext, opts reconcileOptions) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cctx.ensureLogger()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := tabular.ReadCSVFile(opts.engagementPath)
	if err != nil {
		return fmt.Errorf("load engagement export: %w", err)
	}

	items, classSize, err := loadCourse(ctx, cctx, logger, opts)
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(cfg, logger)
	result, err := engine.Run(ctx, reconcile.Input{
		Engagement: table,
		Curriculum: items,
		ClassSize:  classSize,
		CourseID:   opts.courseID,
	})
	if err != nil {
		return err
	}

	if err := writeResult(cmd, cfg, opts, result); err != nil {
		return err
	}
	return writeSinks(ctx, cfg, logger, opts, result)
}

// loadCourse resolves the curriculum and class size. A missing or malformed
// curriculum structure degrades to an empty list with a warning.
func loadCourse(ctx context.Context, cctx *commandContext, logger *slog.Logger, opts reconcileOptions) ([]curriculum.Item, int, error) {
	var items []curriculum.Item
	classSize := opts.classSize

	if opts.curriculumPath != "" {
		loaded, err := curriculum.Load(opts.curriculumPath)
		switch {
		case errors.Is(err, curriculum.ErrStructureMissing):
			logging.WarnWithContext(logger, "curriculum file lacks module or title columns", "curriculum_structure_missing",
				logging.String("path", opts.curriculumPath),
				logging.String(logging.FieldImpact, "module table will be empty"),
				logging.String(logging.FieldErrorHint, "provide module and item_title_raw columns"),
			)
		case err != nil:
			return nil, 0, err
		default:
			items = loaded
		}
	}

	if opts.courseID == "" || (items != nil && classSize > 0) {
		return items, classSize, nil
	}

	client, err := cctx.canvasClient()
	if err != nil {
		return nil, 0, err
	}
	defer client.Close()

	if items == nil {
		fetched, err := client.Curriculum(ctx, opts.courseID)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch curriculum: %w", err)
		}
		items = fetched
	}
	if classSize <= 0 {
		count, ok, err := client.StudentCount(ctx, opts.courseID)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch class size: %w", err)
		}
		if ok {
			classSize = count
		} else {
			logger.Info("class size unavailable from Canvas; falling back to viewer count",
				logging.Args(logging.DecisionAttrs("class_size", "unknown", "enrollments not readable")...)...,
			)
		}
	}
	return items, classSize, nil
}

func writeResult(cmd *cobra.Command, cfg *config.Config, opts reconcileOptions, result *reconcile.Result) error {
	format := opts.format
	if format == "" {
		format = cfg.Output.Format
	}
	out := cmd.OutOrStdout()

	switch report.ResolveFormat(format, out) {
	case report.FormatJSON:
		return report.WriteJSON(out, result)
	case report.FormatTable:
		return report.WriteText(out, result)
	case report.FormatCSV:
		dir := opts.outputDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		if dir == "" {
			dir = "."
		}
		paths, err := report.WriteCSVFiles(dir, cfg.Output.Prefix, result)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(out, "Wrote %s\n", p)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeSinks(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts reconcileOptions, result *reconcile.Result) error {
	sqlitePath := firstNonEmpty(opts.sqlitePath, cfg.Export.SQLitePath)
	if sqlitePath != "" {
		if err := export.WriteSQLite(ctx, sqlitePath, result); err != nil {
			return fmt.Errorf("sqlite export: %w", err)
		}
		logger.Info("run exported", logging.String("path", sqlitePath), logging.String(logging.FieldRunID, result.RunID))
	}

	textfile := firstNonEmpty(opts.metricsTextfile, cfg.Metrics.TextfilePath)
	if textfile != "" {
		rec := metrics.NewRecorder(metrics.WithJob(cfg.Metrics.Job))
		rec.Record(result)
		if err := rec.WriteTextfile(textfile); err != nil {
			return err
		}
		logger.Debug("metrics textfile written", logging.String("path", textfile))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
