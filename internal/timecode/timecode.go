// Package timecode converts the time representations found in engagement
// exports into seconds.
package timecode

import (
	"math"
	"strconv"
	"strings"

	"coursemetrics/internal/tabular"
)

// Seconds is an optional duration in seconds.
type Seconds struct {
	Value float64
	Valid bool
}

// Missing is the absent duration.
var Missing = Seconds{}

// Of wraps a known value.
func Of(v float64) Seconds { return Seconds{Value: v, Valid: true} }

// Ptr returns the value as a pointer, nil when missing.
func (s Seconds) Ptr() *float64 {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// Usable reports whether the value is present, finite and non-negative.
func (s Seconds) Usable() bool {
	return s.Valid && !math.IsInf(s.Value, 0) && !math.IsNaN(s.Value) && s.Value >= 0
}

// Parse converts a table cell. Numeric cells are taken as seconds and text
// cells go through ParseText.
func Parse(cell tabular.Cell) Seconds {
	switch cell.Kind() {
	case tabular.KindNumber:
		v, _ := cell.Float()
		return Of(v)
	case tabular.KindText:
		return ParseText(cell.String())
	default:
		return Missing
	}
}

// ParseText accepts plain seconds ("45", "12.5"), "mm:ss" and "hh:mm:ss".
// Anything else is missing.
func ParseText(raw string) Seconds {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Missing
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		if math.IsNaN(v) {
			return Missing
		}
		return Of(v)
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Missing
	}
	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Missing
		}
		values[i] = v
	}
	if len(values) == 3 {
		return Of(values[0]*3600 + values[1]*60 + values[2])
	}
	return Of(values[0]*60 + values[1])
}

// Format renders seconds as h:mm:ss, or m:ss below an hour.
func Format(s Seconds) string {
	if !s.Usable() {
		return ""
	}
	total := int64(math.Round(s.Value))
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return strconv.FormatInt(h, 10) + ":" + pad2(m) + ":" + pad2(sec)
	}
	return strconv.FormatInt(m, 10) + ":" + pad2(sec)
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
