package scraper

import (
	"context"
	"testing"
	"time"

	"mudah_scraper/models"
)

const basicListingURL = "https://www.mudah.my/unit-at-suria-residence-98765432.htm"

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestExtractor(t *testing.T) (*Extractor, *stubFetcher) {
	t.Helper()
	fetcher := &stubFetcher{pages: map[string][]byte{
		basicListingURL: loadFixture(t, "listing_basic.html"),
	}}
	e := NewExtractor(fetcher)
	e.now = func() time.Time { return fixedNow }
	return e, fetcher
}

func recordValue(t *testing.T, records []models.AttributeRecord, id string) string {
	t.Helper()
	for _, rec := range records {
		if rec.ID == id {
			return models.FormatValue(rec.Value)
		}
	}
	t.Fatalf("record %q not found", id)
	return ""
}

func TestExtractAdsID(t *testing.T) {
	id, ok := ExtractAdsID(basicListingURL)
	if !ok || id != "98765432" {
		t.Fatalf("expected 98765432, got %q (ok=%v)", id, ok)
	}

	if _, ok := ExtractAdsID("https://www.mudah.my/agent-profile"); ok {
		t.Fatal("expected no id for a non-listing URL")
	}
}

func TestExtract_Basic(t *testing.T) {
	e, _ := newTestExtractor(t)

	records := e.Extract(context.Background(), basicListingURL)
	if records == nil {
		t.Fatal("expected records, got skip")
	}

	cases := map[string]string{
		"category_id":       "Apartment, For rent",
		"monthly_rent":      "RM 1,500 per month",
		"address":           "Jalan PJU 1/1, Petaling Jaya, Selangor",
		"property_type":     "Condominium",
		"rooms":             "3",
		"bathroom":          "2",
		"size":              "1,100 sq.ft.",
		"furnished":         "Fully Furnished",
		"facilities":        "Swimming Pool, Gym, Security",
		"name":              "Aisyah Rahman",
		"phone":             "0123456789",
		"body":              "Fully furnished unit near LRT.",
		"state":             "Selangor",
		"region":            "Petaling Jaya",
		"adviewUrl":         "https://www.mudah.my/adview/98765432",
		"cCompanyName":      "Hartanah Realty",
		"publishedDatetime": "2024-03-15 08:00",
		"scrape_date":       "2024-03-15",
		"ads_id":            "98765432",
	}
	for id, want := range cases {
		if got := recordValue(t, records, id); got != want {
			t.Fatalf("%s: expected %q, got %q", id, want, got)
		}
	}

	// Only the third parameter group contributes building details.
	for _, rec := range records {
		if rec.ID == "developer_name" {
			t.Fatal("second parameter group must not leak into the record list")
		}
	}
}

func TestExtract_SkipsWithoutScript(t *testing.T) {
	url := "https://www.mudah.my/bare-page-12345678.htm"
	fetcher := &stubFetcher{pages: map[string][]byte{
		url: []byte("<html><body><p>no embedded data</p></body></html>"),
	}}

	if records := NewExtractor(fetcher).Extract(context.Background(), url); records != nil {
		t.Fatalf("expected skip, got %d records", len(records))
	}
}

func TestExtract_SkipsWithoutAdsID(t *testing.T) {
	url := "https://www.mudah.my/not-a-listing"
	fetcher := &stubFetcher{pages: map[string][]byte{
		url: []byte("<html><body></body></html>"),
	}}

	if records := NewExtractor(fetcher).Extract(context.Background(), url); records != nil {
		t.Fatal("expected skip for URL without listing id")
	}
}

func TestExtract_SkipsUnknownListing(t *testing.T) {
	// Valid payload, but keyed under a different listing id.
	url := "https://www.mudah.my/other-unit-11112222.htm"
	fetcher := &stubFetcher{pages: map[string][]byte{
		url: loadFixture(t, "listing_basic.html"),
	}}

	if records := NewExtractor(fetcher).Extract(context.Background(), url); records != nil {
		t.Fatal("expected skip when the payload has no node for the listing id")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e, _ := newTestExtractor(t)
	reconciler := NewReconciler(testSite().ExcludedCategories, nil)

	first, r1 := reconciler.Reconcile(context.Background(), e.Extract(context.Background(), basicListingURL))
	second, r2 := reconciler.Reconcile(context.Background(), e.Extract(context.Background(), basicListingURL))
	if r1 != Kept || r2 != Kept {
		t.Fatalf("expected both rows kept, got %v and %v", r1, r2)
	}

	a, b := first.Record(), second.Record()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("column %d differs between runs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestNormalizePublished(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Yesterday 10:30", "2024-03-14 10:30"},
		{"Today 08:00", "2024-03-15 08:00"},
		{"15 Jan 2024 09:00", "15 Jan 2024 09:00"},
		{"2024-01-20 14:05", "2024-01-20 14:05"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizePublished(tc.in, fixedNow); got != tc.want {
			t.Fatalf("normalizePublished(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
