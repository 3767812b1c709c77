// Package formatter renders snapshot rows as aligned markdown tables.
package formatter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"etenders/internal/models"
	"etenders/pkg/utils"
)

// ErrUnknownColumn is returned when a preview asks for a column the snapshot does not have.
var ErrUnknownColumn = errors.New("unknown column")

// PreviewColumns are the columns shown when none are requested.
var PreviewColumns = []string{"Tender Number", "Closing date", "Province", "Department", "Description"}

// DefaultCellWidth caps the runes shown per cell.
const DefaultCellWidth = 48

// Table is a header row followed by data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Preview projects the first limit records onto columns. A limit of zero or
// less keeps every record.
func Preview(records []models.Tender, limit int, columns []string, cellWidth int) (*Table, error) {
	if len(columns) == 0 {
		columns = PreviewColumns
	}

	idx := make([]int, len(columns))

	for i, col := range columns {
		j := slices.Index(models.Columns, col)
		if j < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}

		idx[i] = j
	}

	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}

	strs := utils.NewStringHelper()
	table := &Table{Header: slices.Clone(columns)}

	for _, rec := range records[:limit] {
		values := rec.Values()
		row := make([]string, len(idx))

		for i, j := range idx {
			cell := strs.NormalizeWhitespace(values[j])
			if cellWidth > 0 {
				cell = strs.TruncateString(cell, cellWidth)
			}

			row[i] = strings.ReplaceAll(cell, "|", `\|`)
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Render returns the table padded to the display width of each column.
func (t *Table) Render() string {
	colWidths := make([]int, len(t.Header))

	for _, row := range append([][]string{t.Header}, t.Rows...) {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	// A separator needs at least "---".
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, renderRow(t.Header, colWidths))

	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}

	lines = append(lines, renderRow(sep, colWidths))

	for _, row := range t.Rows {
		lines = append(lines, renderRow(row, colWidths))
	}

	return strings.Join(lines, "\n")
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
