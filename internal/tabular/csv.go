package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// nullTokens mirrors the placeholders spreadsheet exports use for blank cells.
var nullTokens = map[string]struct{}{
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"#n/a": {},
}

// ReadCSVFile loads a CSV file from disk.
func ReadCSVFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	table, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV parses CSV content whose first record is the header. A leading UTF-8
// byte order mark is ignored and ragged rows are padded or truncated to the
// header width. Input without any header yields an empty table with no
// columns.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := New(header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", table.Len()+1, err)
		}
		cells := make([]Cell, len(record))
		for i, raw := range record {
			cells[i] = parseCSVCell(raw)
		}
		table.Append(cells...)
	}
	return table, nil
}

func parseCSVCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Missing()
	}
	if _, ok := nullTokens[strings.ToLower(trimmed)]; ok {
		return Missing()
	}
	return Text(raw)
}

// WriteCSV writes the table header and rows.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			if i < len(row) {
				record[i] = row[i].String()
			} else {
				record[i] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
