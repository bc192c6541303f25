package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is the sentinel wrapped by MissingColumnError.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports a required column that could not be located.
type MissingColumnError struct {
	Candidates []string
	Available  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column; need one of %q, found columns %q", e.Candidates, e.Available)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// Resolve locates the column for one semantic role. Candidates are compared
// case-insensitively: the first candidate (in list order) that exactly equals
// a header wins; otherwise the first header (in table order) containing any
// candidate as a substring wins. When nothing matches, required lookups fail
// with *MissingColumnError and optional lookups return ok=false.
func (t *Table) Resolve(candidates []string, required bool) (int, bool, error) {
	lowered := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		lowered[i] = strings.ToLower(strings.TrimSpace(col))
	}

	for _, want := range candidates {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		for i, col := range lowered {
			if col == want {
				return i, true, nil
			}
		}
	}

	for i, col := range lowered {
		for _, want := range candidates {
			want = strings.ToLower(strings.TrimSpace(want))
			if want != "" && strings.Contains(col, want) {
				return i, true, nil
			}
		}
	}

	if required {
		available := make([]string, len(t.Columns))
		copy(available, t.Columns)
		wanted := make([]string, len(candidates))
		copy(wanted, candidates)
		return -1, false, &MissingColumnError{Candidates: wanted, Available: available}
	}
	return -1, false, nil
}
