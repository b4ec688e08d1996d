package models

// ListingRef points at one advertisement page discovered on a search
// results page. AdsID is the numeric identifier parsed out of the URL
// path; a URL the pattern cannot match never becomes a ListingRef.
type ListingRef struct {
	URL   string
	AdsID string
}
