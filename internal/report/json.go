package report

import (
	"encoding/json"
	"io"

	"coursemetrics/internal/reconcile"
)

// WriteJSON encodes the result as indented JSON.
func WriteJSON(w io.Writer, res *reconcile.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
