// Package export writes tender snapshots to disk.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"etenders/internal/models"
)

// Export errors.
var (
	ErrUnknownFormat = errors.New("unknown snapshot format")
	ErrBadHeader     = errors.New("snapshot header does not match the tender columns")
)

// Exporter writes a complete snapshot to a file.
type Exporter interface {
	// Format is the file extension, without dot.
	Format() string
	Export(path string, records []models.Tender) error
}

// ForFormat returns the exporter for a configured format name.
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSVExporter(), nil
	case "xlsx":
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ForFormats returns one exporter per format, in order.
func ForFormats(formats []string) ([]Exporter, error) {
	exporters := make([]Exporter, 0, len(formats))

	for _, f := range formats {
		exp, err := ForFormat(f)
		if err != nil {
			return nil, err
		}

		exporters = append(exporters, exp)
	}

	return exporters, nil
}

// writeAtomic streams into a temp file next to path and renames it into
// place, so readers never see a partial snapshot.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	return nil
}
