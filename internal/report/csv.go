package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"coursemetrics/internal/fileutil"
	"coursemetrics/internal/reconcile"
	"coursemetrics/internal/tabular"
)

// File name stems, joined with the configured prefix.
const (
	SummaryFile  = "summary.csv"
	ModulesFile  = "module_table.csv"
	StudentsFile = "students.csv"
	MatchesFile  = "matches.csv"
)

// WriteCSVFiles writes every result table under dir and returns the paths
// written. The student file is skipped when the export had no identities.
func WriteCSVFiles(dir, prefix string, res *reconcile.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	outputs := []struct {
		name  string
		table *tabular.Table
	}{
		{SummaryFile, MediaTable(res)},
		{ModulesFile, ModuleTable(res)},
		{StudentsFile, StudentTable(res)},
		{MatchesFile, MatchTable(res)},
	}

	var written []string
	for _, out := range outputs {
		if out.name == StudentsFile && len(res.Students) == 0 {
			continue
		}
		path := filepath.Join(dir, prefix+out.name)
		if err := writeTableFile(path, out.table); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeTableFile(path string, table *tabular.Table) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return tabular.WriteCSV(w, table)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
