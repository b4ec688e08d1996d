package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"mudah_scraper/models"
)

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rows.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}

	row := models.NewPropertyRow()
	row.Set("category_id", "Apartment, For rent")
	row.Set("monthly_rent", "RM 1,200 per month")
	row.Set("latitude", 3.1579)

	if err := w.WriteRows([]models.PropertyRow{row}); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}

	header := records[0]
	if len(header) != len(models.SchemaColumns) {
		t.Fatalf("expected %d columns, got %d", len(models.SchemaColumns), len(header))
	}
	if header[0] != "address" || header[len(header)-1] != "body" {
		t.Fatalf("unexpected header bounds: %q .. %q", header[0], header[len(header)-1])
	}

	data := records[1]
	byCol := make(map[string]string, len(header))
	for i, col := range header {
		byCol[col] = data[i]
	}
	if byCol["category_id"] != "Apartment, For rent" {
		t.Fatalf("unexpected category cell: %q", byCol["category_id"])
	}
	if byCol["latitude"] != "3.1579" {
		t.Fatalf("unexpected latitude cell: %q", byCol["latitude"])
	}
	if byCol["address"] != "" {
		t.Fatalf("absent attribute must be an empty cell, got %q", byCol["address"])
	}
}
