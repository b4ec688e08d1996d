package scraper

import (
	"bytes"
	"context"
	"log"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mudah_scraper/models"
)

var adsIDPattern = regexp.MustCompile(`-(\d+)\.htm`)

// ExtractAdsID pulls the numeric listing identifier out of a listing
// URL. URLs that don't match the pattern are not listings.
func ExtractAdsID(url string) (string, bool) {
	m := adsIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Extractor fetches one listing page and flattens its embedded payload
// into a list of attribute records.
type Extractor struct {
	fetcher Fetcher
	now     func() time.Time
}

func NewExtractor(fetcher Fetcher) *Extractor {
	return &Extractor{fetcher: fetcher, now: time.Now}
}

// Extract returns the listing's attribute records, or nil when the
// listing should be skipped. Skips are logged with the URL; they are
// never surfaced as errors, the batch always moves on.
func (e *Extractor) Extract(ctx context.Context, url string) []models.AttributeRecord {
	body, err := e.fetcher.Get(ctx, url)
	if err != nil {
		log.Printf("Failed to fetch listing %s: %v", url, err)
		return nil
	}

	adsID, ok := ExtractAdsID(url)
	if !ok {
		log.Printf("No listing id in URL, skipping: %s", url)
		return nil
	}

	raw, ok := locatePayload(body)
	if !ok {
		log.Printf("No embedded data script found for URL: %s", url)
		return nil
	}

	payload, err := decodePayload(raw)
	if err != nil {
		log.Printf("Malformed embedded data for %s: %v", url, err)
		return nil
	}

	details := payload.adDetails(adsID)
	if len(details) == 0 {
		log.Printf("No details for listing %s at %s", adsID, url)
		return nil
	}

	return e.assemble(payload, details, adsID)
}

// locatePayload tries the two known script-tag markers in order.
func locatePayload(body []byte) ([]byte, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, false
	}

	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		script = doc.Find(`script[type="application/json"]`).First()
	}
	if script.Length() == 0 {
		return nil, false
	}
	return []byte(script.Text()), true
}

// assemble concatenates the category parameters, the building details
// and the derived scalar fields into one flat record list.
func (e *Extractor) assemble(payload *adPayload, details payloadNode, adsID string) []models.AttributeRecord {
	now := e.now()

	records := categoryParams(details)
	records = append(records, buildingParams(details)...)
	records = append(records,
		models.AttributeRecord{ID: "name", Value: attrString(details, "name")},
		models.AttributeRecord{ID: "phone", Value: attrString(details, "phone")},
		models.AttributeRecord{ID: "body", Value: attrString(details, "body")},
		models.AttributeRecord{ID: "state", Value: attrString(details, "regionName")},
		models.AttributeRecord{ID: "region", Value: attrString(details, "subregionName")},
		models.AttributeRecord{ID: "adviewUrl", Value: attrString(details, "adviewUrl")},
		models.AttributeRecord{ID: "cCompanyName", Value: payload.storeCompanyName(details)},
		models.AttributeRecord{ID: "publishedDatetime", Value: normalizePublished(attrString(details, "publishedDatetime"), now)},
		models.AttributeRecord{ID: "scrape_date", Value: now.Format("2006-01-02")},
		models.AttributeRecord{ID: "ads_id", Value: adsID},
	)
	return records
}
