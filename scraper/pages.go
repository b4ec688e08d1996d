package scraper

import (
	"fmt"
	"strings"

	"mudah_scraper/config"
)

// BuildPageURLs returns one search-results URL per page index in
// [start, end]. An empty region means the nationwide search path.
// Start is clamped to 1 and end is clamped to start, matching how the
// site itself treats out-of-range pages.
func BuildPageURLs(site config.SiteConfig, region string, start, end int) []string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		region = site.DefaultRegion
	}
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}

	urls := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		urls = append(urls, fmt.Sprintf("%s/%s/%s?%s=%d",
			site.BaseURL, region, site.SearchPath, site.PageParam, i))
	}
	return urls
}
