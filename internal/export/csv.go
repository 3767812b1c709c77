package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"etenders/internal/models"
)

// CSVExporter writes the header row followed by one row per tender, with
// no index column.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Format implements Exporter.
func (e *CSVExporter) Format() string {
	return "csv"
}

// Export implements Exporter.
func (e *CSVExporter) Export(path string, records []models.Tender) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

// WriteCSV encodes records as CSV.
func WriteCSV(w io.Writer, records []models.Tender) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range records {
		if err := cw.Write(records[i].Values()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}

// ReadCSV loads a snapshot written by CSVExporter.
func ReadCSV(path string) ([]models.Tender, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(models.Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if !slices.Equal(header, models.Columns) {
		return nil, ErrBadHeader
	}

	var records []models.Tender

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+1, err)
		}

		records = append(records, models.TenderFromValues(row))
	}

	return records, nil
}
