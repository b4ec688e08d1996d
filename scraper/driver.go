package scraper

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"mudah_scraper/config"
	"mudah_scraper/models"
)

// Params are the four run arguments the user is prompted for. They are
// validated before the driver is built; the driver trusts them.
type Params struct {
	Region    string
	StartPage int
	EndPage   int
	DelaySec  int
}

// BatchResult is the complete outcome of one run: the retained rows
// plus the run record. Ownership stays with the driver until the
// caller writes the output.
type BatchResult struct {
	Run  models.ScrapeRun
	Rows []models.PropertyRow
}

// Driver sequences the whole pipeline: page URLs → link collection →
// per-listing extraction → reconciliation. Strictly sequential, one
// request in flight at a time; that is deliberate politeness, not a
// missing feature.
type Driver struct {
	site       config.SiteConfig
	collector  *LinkCollector
	extractor  *Extractor
	reconciler *Reconciler
	sleep      func(time.Duration)
}

func NewDriver(site config.SiteConfig, collector *LinkCollector, extractor *Extractor, reconciler *Reconciler) *Driver {
	return &Driver{
		site:       site,
		collector:  collector,
		extractor:  extractor,
		reconciler: reconciler,
		sleep:      time.Sleep,
	}
}

// Run executes one full batch pass. Per-listing failures are skips,
// never aborts; the returned result is complete even when every single
// listing was skipped.
func (d *Driver) Run(ctx context.Context, p Params) *BatchResult {
	run := models.ScrapeRun{
		ID:        uuid.New(),
		Region:    p.Region,
		StartPage: p.StartPage,
		EndPage:   p.EndPage,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	log.Printf("[%s] Starting scrape: region=%q pages=%d..%d delay=%ds",
		run.ID, p.Region, p.StartPage, p.EndPage, p.DelaySec)

	pageURLs := BuildPageURLs(d.site, p.Region, p.StartPage, p.EndPage)
	refs := d.collectRefs(ctx, pageURLs)
	run.PagesFetched = len(pageURLs)
	run.LinksFound = len(refs)
	log.Printf("[%s] Collected %d listing links", run.ID, len(refs))

	result := &BatchResult{}
	for i, ref := range refs {
		d.listingDelay(p.DelaySec)

		records := d.extractor.Extract(ctx, ref.URL)
		if records == nil {
			run.Skipped++
			continue
		}

		row, reason := d.reconciler.Reconcile(ctx, records)
		switch reason {
		case Kept:
			result.Rows = append(result.Rows, row)
			run.RowsKept++
		case ExcludedCategory:
			run.Excluded++
		case NoRecognizedAttrs:
			run.Skipped++
		}

		if (i+1)%25 == 0 {
			log.Printf("[%s] Progress: %d/%d listings, %d rows kept", run.ID, i+1, len(refs), run.RowsKept)
		}
	}

	now := time.Now()
	run.FinishedAt = &now
	run.Status = models.RunStatusCompleted
	result.Run = run

	log.Printf("[%s] Completed: %s", run.ID, run.Summary())
	return result
}

// collectRefs walks the page range and gathers every well-formed
// listing reference, deduplicated across pages (the site repeats
// boosted listings between pages).
func (d *Driver) collectRefs(ctx context.Context, pageURLs []string) []models.ListingRef {
	seen := make(map[string]struct{})
	var refs []models.ListingRef

	for _, pageURL := range pageURLs {
		for _, link := range d.collector.Collect(ctx, pageURL) {
			adsID, ok := ExtractAdsID(link)
			if !ok {
				log.Printf("Dropping malformed listing link: %s", link)
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			refs = append(refs, models.ListingRef{URL: link, AdsID: adsID})
		}
	}
	return refs
}

// listingDelay spaces listing fetches: the prompted base delay plus a
// little uniform jitter so the interval isn't a constant.
func (d *Driver) listingDelay(baseSec int) {
	jitter := rand.Float64() * d.site.ListingJitterSec
	d.sleep(time.Duration((float64(baseSec) + jitter) * float64(time.Second)))
}
