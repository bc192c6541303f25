package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"coursemetrics/internal/reconcile"
	"coursemetrics/internal/tabular"
	"coursemetrics/internal/timecode"
)

const (
	ansiReset = "\033[0m"
	ansiBlue  = "\033[34m"
)

// Output formats accepted by Resolve.
const (
	FormatAuto  = "auto"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ResolveFormat turns "auto" into table for terminals and JSON otherwise.
func ResolveFormat(format string, w io.Writer) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == FormatAuto {
		if IsTerminal(w) {
			return FormatTable
		}
		return FormatJSON
	}
	return format
}

// WriteText renders the summary and the result tables for a human reader.
func WriteText(w io.Writer, res *reconcile.Result) error {
	colorize := IsTerminal(w)
	var b strings.Builder

	writeSection(&b, "Summary", colorize)
	b.WriteString(renderSummary(res))
	b.WriteString("\n\n")

	writeSection(&b, "Media", colorize)
	b.WriteString(renderTable(MediaTable(res), mediaFormatters))
	b.WriteString("\n\n")

	writeSection(&b, "Modules", colorize)
	if len(res.Modules) == 0 {
		b.WriteString("No matched modules\n\n")
	} else {
		b.WriteString(renderTable(ModuleTable(res), moduleFormatters))
		b.WriteString("\n\n")
	}

	if len(res.Students) > 0 {
		writeSection(&b, "Students", colorize)
		b.WriteString(renderTable(StudentTable(res), studentFormatters))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, colorize bool) {
	line := fmt.Sprintf("== %s ==", title)
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(rule)
	b.WriteByte('\n')
}

func renderSummary(res *reconcile.Result) string {
	s := res.Summary
	rows := [][2]string{
		{"Run", res.RunID},
		{"Media", strconv.Itoa(s.MediaCount)},
		{"Curriculum items", strconv.Itoa(s.CurriculumItems)},
		{"Matched media", strconv.Itoa(s.MatchedMedia)},
		{"Unmatched media", strconv.Itoa(s.UnmatchedMedia)},
		{"Average engagement", percent(s.AverageEngagement)},
		{"Students", studentCount(s)},
	}
	if s.FallbackUsed {
		rows = append(rows, [2]string{"Matching", "fallback (no title reached the threshold)"})
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-20s %s\n", r[0]+":", r[1])
	}
	if len(s.UnmatchedTitles) > 0 {
		b.WriteString("Unmatched titles:\n")
		for _, t := range s.UnmatchedTitles {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func studentCount(s reconcile.Summary) string {
	if s.StudentCountSource == reconcile.StudentCountUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%d (%s)", s.StudentCount, strings.ReplaceAll(s.StudentCountSource, "_", " "))
}

type cellFormatter func(tabular.Cell) string

var (
	mediaFormatters   = []cellFormatter{plainCell, durationCell, plainCell, percentCell, percentCell}
	moduleFormatters  = []cellFormatter{plainCell, percentCell, plainCell}
	studentFormatters = []cellFormatter{plainCell, percentCell, percentCell}
)

func plainCell(c tabular.Cell) string {
	if c.IsMissing() {
		return "-"
	}
	return c.String()
}

func durationCell(c tabular.Cell) string {
	v, ok := c.Float()
	if !ok {
		return "-"
	}
	return timecode.Format(timecode.Of(v))
}

func percentCell(c tabular.Cell) string {
	v, ok := c.Float()
	if !ok {
		return "-"
	}
	return percent(&v)
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}

func renderTable(t *tabular.Table, formatters []cellFormatter) string {
	columns := len(t.Columns)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, col := range t.Columns {
		header[i] = col
	}
	tw.AppendHeader(header)

	for r := range t.Len() {
		row := make(table.Row, columns)
		for i := range columns {
			format := plainCell
			if i < len(formatters) {
				format = formatters[i]
			}
			row[i] = format(t.Cell(r, i))
		}
		tw.AppendRow(row)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignRight
		if i == 0 {
			align = text.AlignLeft
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
