package curriculum

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"coursemetrics/internal/fileutil"
	"coursemetrics/internal/tabular"
)

// Load reads a curriculum file, choosing the format from its extension.
// Files ending in .json are decoded as a JSON array of objects; anything else
// is read as CSV.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(bytes.NewReader(data))
	}
	return ReadCSV(bytes.NewReader(data))
}

// ReadCSV parses a curriculum CSV.
func ReadCSV(r io.Reader) ([]Item, error) {
	table, err := tabular.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parse curriculum csv: %w", err)
	}
	return FromTable(table)
}

// ReadJSON parses a JSON array of curriculum records. Keys follow the CSV
// column names.
func ReadJSON(r io.Reader) ([]Item, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return FromTable(tabular.New())
		}
		return nil, fmt.Errorf("decode curriculum json: %w", err)
	}

	var columns []string
	seen := make(map[string]int)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			if _, ok := seen[k]; !ok {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			seen[k] = len(columns)
			columns = append(columns, k)
		}
	}

	table := tabular.New(columns...)
	for _, rec := range records {
		cells := make([]tabular.Cell, len(columns))
		for k, v := range rec {
			cells[seen[k]] = jsonCell(v)
		}
		table.Append(cells...)
	}
	return FromTable(table)
}

func jsonCell(v any) tabular.Cell {
	switch val := v.(type) {
	case nil:
		return tabular.Missing()
	case string:
		return tabular.Text(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return tabular.Text(val.String())
		}
		return tabular.Number(f)
	case bool:
		return tabular.Text(strconv.FormatBool(val))
	default:
		return tabular.Text(fmt.Sprint(val))
	}
}

// FromTable converts a loosely typed table into curriculum items. Header
// names must match exactly (case-insensitive). Rows without a module or title
// are dropped. A missing module position falls back to the order in which the
// module first appears and a missing item position to the row order.
func FromTable(table *tabular.Table) ([]Item, error) {
	moduleCol := exactColumn(table, moduleColumns)
	titleCol := exactColumn(table, titleColumns)
	if moduleCol < 0 || titleCol < 0 {
		return []Item{}, ErrStructureMissing
	}
	modulePosCol := exactColumn(table, modulePositionColumns)
	itemPosCol := exactColumn(table, itemPositionColumns)
	typeCol := exactColumn(table, itemTypeColumns)

	items := make([]Item, 0, table.Len())
	firstSeen := make(map[string]int)
	for i := range table.Len() {
		module := strings.TrimSpace(table.Cell(i, moduleCol).String())
		title := strings.TrimSpace(table.Cell(i, titleCol).String())
		if module == "" || title == "" {
			continue
		}
		if _, ok := firstSeen[module]; !ok {
			firstSeen[module] = len(firstSeen) + 1
		}
		item := Item{
			ModuleName:     module,
			ModulePosition: firstSeen[module],
			Title:          title,
			ItemPosition:   i + 1,
		}
		if pos, ok := intCell(table.Cell(i, modulePosCol)); ok {
			item.ModulePosition = pos
		}
		if pos, ok := intCell(table.Cell(i, itemPosCol)); ok {
			item.ItemPosition = pos
		}
		if typeCol >= 0 {
			item.ItemType = strings.TrimSpace(table.Cell(i, typeCol).String())
		}
		items = append(items, item)
	}
	return items, nil
}

func exactColumn(table *tabular.Table, names []string) int {
	for _, name := range names {
		for i, col := range table.Columns {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}

func intCell(cell tabular.Cell) (int, bool) {
	if v, ok := cell.Float(); ok {
		return int(math.Round(v)), true
	}
	text := strings.TrimSpace(cell.String())
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

// WriteCSV writes items with the standard header.
func WriteCSV(w io.Writer, items []Item) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write curriculum header: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.ModuleName,
			strconv.Itoa(item.ModulePosition),
			item.Title,
			strconv.Itoa(item.ItemPosition),
			item.ItemType,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write curriculum row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Save writes items to path as CSV, or JSON when the path ends in .json.
func Save(path string, items []Item) error {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".json") {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode curriculum json: %w", err)
		}
	} else if err := WriteCSV(&buf, items); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write curriculum %s: %w", path, err)
	}
	return nil
}
