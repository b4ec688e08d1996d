package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mudah_scraper/config"
)

// Fetcher is the pipeline's one network dependency. httputil.Client
// satisfies it; tests swap in stubs.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// LinkCollector pulls the set of listing URLs off one search-results
// page. Two extraction strategies cover the site's two known layouts:
// an anchor scan over listing-id tags, and the embedded ld+json
// structured-data block. The anchor scan goes first; the ld+json block
// has broken more than once.
type LinkCollector struct {
	site    config.SiteConfig
	fetcher Fetcher
	sleep   func(time.Duration)
}

func NewLinkCollector(site config.SiteConfig, fetcher Fetcher) *LinkCollector {
	return &LinkCollector{
		site:    site,
		fetcher: fetcher,
		sleep:   time.Sleep,
	}
}

// Collect returns the deduplicated listing URLs advertised on pageURL.
// It throttles with a randomized delay before the request and never
// returns an error: every failure is logged and resolved to an empty
// result so one bad page cannot abort the batch.
func (c *LinkCollector) Collect(ctx context.Context, pageURL string) []string {
	c.throttle()

	body, err := c.fetcher.Get(ctx, pageURL)
	if err != nil {
		log.Printf("Failed to fetch search page %s: %v", pageURL, err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("Failed to parse search page %s: %v", pageURL, err)
		return nil
	}

	links := c.scanAnchors(doc)
	if len(links) == 0 {
		links = c.scanItemList(doc, pageURL)
	}
	return links
}

// Delay comes before the request, not after: the point is spacing the
// requests out, and the last page has nothing following it.
func (c *LinkCollector) throttle() {
	min, max := c.site.LinkDelayMinSec, c.site.LinkDelayMaxSec
	delay := min + rand.Float64()*(max-min)
	c.sleep(time.Duration(delay * float64(time.Second)))
}

// scanAnchors is the anchor-tag strategy: every <a> carrying a
// data-listid whose href points at a listing page on this site.
func (c *LinkCollector) scanAnchors(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[data-listid]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if !strings.HasPrefix(href, c.site.BaseURL) || !strings.Contains(href, ".htm") {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links
}

// scanItemList is the structured-data strategy: the ld+json block's
// top-level array keeps its ItemList as the third element.
func (c *LinkCollector) scanItemList(doc *goquery.Document, pageURL string) []string {
	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return nil
	}

	var blocks []struct {
		ItemListElement []struct {
			Item struct {
				URL string `json:"url"`
			} `json:"item"`
		} `json:"itemListElement"`
	}
	if err := json.Unmarshal([]byte(script.Text()), &blocks); err != nil {
		log.Printf("Malformed ld+json block on %s: %v", pageURL, err)
		return nil
	}
	if len(blocks) < 3 {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	for _, entry := range blocks[2].ItemListElement {
		url := entry.Item.URL
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		links = append(links, url)
	}
	return links
}
