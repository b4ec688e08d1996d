package scraper

import (
	"context"
	"log"

	"mudah_scraper/models"
)

// Geocoder resolves a free-text address to coordinates. ok reports
// whether anything was resolved; an unresolved address is not an error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, ok bool)
}

// DropReason says what the reconciler did with a listing.
type DropReason int

const (
	Kept DropReason = iota
	ExcludedCategory
	NoRecognizedAttrs
)

// Reconciler turns one listing's attribute records into at most one
// fixed-schema row.
type Reconciler struct {
	excluded map[string]struct{}
	geocoder Geocoder
}

func NewReconciler(excludedCategories []string, geocoder Geocoder) *Reconciler {
	excluded := make(map[string]struct{}, len(excludedCategories))
	for _, c := range excludedCategories {
		excluded[c] = struct{}{}
	}
	return &Reconciler{excluded: excluded, geocoder: geocoder}
}

// Reconcile applies, in order: category exclusion, geocoding of the
// address (skipped entirely when no address is present), and
// projection onto the recognized schema. Unrecognized ids drop
// silently; a repeated id keeps its last value.
func (r *Reconciler) Reconcile(ctx context.Context, records []models.AttributeRecord) (models.PropertyRow, DropReason) {
	if category, ok := findValue(records, "category_id"); ok {
		if _, excluded := r.excluded[category]; excluded {
			log.Printf("Skipping excluded category: %s", category)
			return models.PropertyRow{}, ExcludedCategory
		}
	}

	row := models.NewPropertyRow()
	for _, rec := range records {
		row.Set(rec.ID, rec.Value)
	}

	if address, ok := findValue(records, "address"); ok && address != "" && r.geocoder != nil {
		if lat, lon, found := r.geocoder.Geocode(ctx, address); found {
			row.Set("latitude", lat)
			row.Set("longitude", lon)
		}
	}

	if row.Len() == 0 {
		return row, NoRecognizedAttrs
	}
	return row, Kept
}

func findValue(records []models.AttributeRecord, id string) (string, bool) {
	for _, rec := range records {
		if rec.ID == id {
			return models.FormatValue(rec.Value), true
		}
	}
	return "", false
}
