package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"mudah_scraper/models"
)

// CSVWriter writes the batch's property rows to a delimited file whose
// columns are exactly the recognized attribute schema.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the file at path and writes the
// header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	header := make([]string, len(models.SchemaColumns))
	for i, col := range models.SchemaColumns {
		header[i] = string(col)
	}
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRows appends every row; absent attributes come out as empty
// cells, never zero-filled.
func (c *CSVWriter) WriteRows(rows []models.PropertyRow) error {
	for _, row := range rows {
		if err := c.writer.Write(row.Record()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
