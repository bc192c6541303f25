package export

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"coursemetrics/internal/reconcile"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

var (
	// ErrSchemaMismatch indicates the database was written by an incompatible version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLocked indicates another process holds the export lock.
	ErrLocked = errors.New("export database is locked by another process")
)

// Store is an open export database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open acquires the export lock and opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire export lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock}
	if err := store.initSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (export to a new file)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// WriteRun stores every table of res in one transaction.
func (s *Store) WriteRun(ctx context.Context, res *reconcile.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sum := res.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, course_id, started_at, duration_ms, media_count, curriculum_items,
            matched_media, unmatched_media, fallback_used, average_engagement,
            student_count, student_count_source
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID,
		nullableString(res.CourseID),
		sum.StartedAt.UTC().Format(time.RFC3339Nano),
		sum.Duration.Milliseconds(),
		sum.MediaCount,
		sum.CurriculumItems,
		sum.MatchedMedia,
		sum.UnmatchedMedia,
		boolToInt(sum.FallbackUsed),
		nullableFloat(sum.AverageEngagement),
		sum.StudentCount,
		sum.StudentCountSource,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, m := range res.Media {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO media (run_id, position, title, duration_seconds, unique_viewers,
                average_view_fraction, students_viewing_fraction) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, i, m.Title, nullableFloat(m.DurationSeconds), m.UniqueViewers,
			nullableFloat(m.AverageViewFraction), nullableFloat(m.StudentsViewingFraction),
		); err != nil {
			return fmt.Errorf("insert media %q: %w", m.Title, err)
		}
	}

	for i, m := range res.Modules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO modules (run_id, position, name, average_view_fraction, viewer_count_sum, matched_media)
                VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, i, m.Name, nullableFloat(m.AverageViewFraction), m.ViewerCountSum, m.MatchedMedia,
		); err != nil {
			return fmt.Errorf("insert module %q: %w", m.Name, err)
		}
	}

	for _, st := range res.Students {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO students (run_id, student, average_view_fraction_when_watched, view_fraction_of_total_catalog)
                VALUES (?, ?, ?, ?)`,
			res.RunID, st.ID, nullableFloat(st.AverageViewFractionWhenWatched), nullableFloat(st.ViewFractionOfTotalCatalog),
		); err != nil {
			return fmt.Errorf("insert student %s: %w", st.ID, err)
		}
	}

	for i, m := range res.Matches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches (run_id, position, media_title, item_title, module, score, method)
                VALUES (?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, i, m.MediaTitle, m.ItemTitle, m.Module, m.Score, string(m.Method),
		); err != nil {
			return fmt.Errorf("insert match %q: %w", m.MediaTitle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

// RunCounts reports how many rows each table holds for runID.
func (s *Store) RunCounts(ctx context.Context, runID string) (map[string]int, error) {
	counts := make(map[string]int, 5)
	for _, table := range []string{"runs", "media", "modules", "students", "matches"} {
		var n int
		query := "SELECT COUNT(1) FROM " + table + " WHERE run_id = ?"
		if err := s.db.QueryRowContext(ctx, query, runID).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// WriteSQLite opens the database at path, writes res, and closes it again.
func WriteSQLite(ctx context.Context, path string, res *reconcile.Result) error {
	store, err := Open(ctx, path)
	if err != nil {
		return err
	}
	if err := store.WriteRun(ctx, res); err != nil {
		_ = store.Close()
		return err
	}
	return store.Close()
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
