package formatter

import (
	"errors"
	"strings"
	"testing"

	"etenders/internal/models"
)

func TestTableRender(t *testing.T) {
	tests := []struct {
		name     string
		table    Table
		expected string
	}{
		{
			name: "Basic table",
			table: Table{
				Header: []string{"Header 1", "Header 2"},
				Rows:   [][]string{{"val 1", "val 2"}},
			},
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name: "Minimum separator width",
			table: Table{
				Header: []string{"H1", "H2"},
				Rows:   [][]string{{"v1", "v2"}},
			},
			expected: `
| H1  | H2  |
| --- | --- |
| v1  | v2  |
`,
		},
		{
			name: "Short rows are padded",
			table: Table{
				Header: []string{"Col A", "Col B"},
				Rows:   [][]string{{"A"}},
			},
			expected: `
| Col A | Col B |
| ----- | ----- |
| A     |       |
`,
		},
		{
			name: "Mixed CJK and ASCII",
			table: Table{
				Header: []string{"Date", "Event"},
				Rows: [][]string{
					{"2025-01-01", "消防處：增至83死。"},
					{"2025-01-02", "Short text"},
				},
			},
			expected: `
| Date       | Event              |
| ---------- | ------------------ |
| 2025-01-01 | 消防處：增至83死。 |
| 2025-01-02 | Short text         |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.Render()
			if got != strings.TrimSpace(tt.expected) {
				t.Errorf("Render() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	records := []models.Tender{
		{TenderNumber: "T1", Province: "Gauteng", Description: "Cleaning  services\nfor offices"},
		{TenderNumber: "T2", Province: "Limpopo", Description: "A|B"},
		{TenderNumber: "T3", Province: "Free State"},
	}

	table, err := Preview(records, 2, []string{"Tender Number", "Province", "Description"}, 0)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	if got := table.Rows[0][2]; got != "Cleaning services for offices" {
		t.Errorf("whitespace not normalized: %q", got)
	}

	if got := table.Rows[1][2]; got != `A\|B` {
		t.Errorf("pipe not escaped: %q", got)
	}
}

func TestPreview_DefaultsAndTruncation(t *testing.T) {
	records := []models.Tender{
		{TenderNumber: "T1", Description: strings.Repeat("x", 60)},
	}

	table, err := Preview(records, 0, nil, 10)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if len(table.Header) != len(PreviewColumns) {
		t.Fatalf("expected default columns, got %v", table.Header)
	}

	if got := table.Rows[0][4]; got != strings.Repeat("x", 10)+"..." {
		t.Errorf("description not truncated: %q", got)
	}
}

func TestPreview_UnknownColumn(t *testing.T) {
	_, err := Preview(nil, 5, []string{"Budget"}, 0)
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}
