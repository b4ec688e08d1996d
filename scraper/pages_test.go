package scraper

import (
	"fmt"
	"strings"
	"testing"

	"mudah_scraper/config"
)

func testSite() config.SiteConfig {
	return config.SiteConfig{
		BaseURL:       "https://www.mudah.my",
		DefaultRegion: "malaysia",
		SearchPath:    "properties-for-rent",
		PageParam:     "o",
		ExcludedCategories: []string{
			"Commercial Property, For rent",
			"Land, For rent",
			"Room, For rent",
		},
	}
}

func TestBuildPageURLs_Range(t *testing.T) {
	urls := BuildPageURLs(testSite(), "Selangor", 2, 5)
	if len(urls) != 4 {
		t.Fatalf("expected 4 urls, got %d", len(urls))
	}
	for i, u := range urls {
		want := fmt.Sprintf("o=%d", i+2)
		if !strings.HasSuffix(u, want) {
			t.Fatalf("url %d should end in %s: %s", i, want, u)
		}
		if !strings.HasPrefix(u, "https://www.mudah.my/selangor/properties-for-rent?") {
			t.Fatalf("unexpected url prefix: %s", u)
		}
	}
}

func TestBuildPageURLs_EmptyRegionIsNationwide(t *testing.T) {
	urls := BuildPageURLs(testSite(), "", 1, 1)
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}
	if urls[0] != "https://www.mudah.my/malaysia/properties-for-rent?o=1" {
		t.Fatalf("unexpected url: %s", urls[0])
	}
}

func TestBuildPageURLs_Clamping(t *testing.T) {
	urls := BuildPageURLs(testSite(), "johor", 0, 2)
	if len(urls) != 2 {
		t.Fatalf("start should clamp to 1, expected 2 urls, got %d", len(urls))
	}
	if !strings.HasSuffix(urls[0], "o=1") {
		t.Fatalf("first url should be page 1: %s", urls[0])
	}

	urls = BuildPageURLs(testSite(), "johor", 5, 3)
	if len(urls) != 1 {
		t.Fatalf("end should clamp to start, expected 1 url, got %d", len(urls))
	}
	if !strings.HasSuffix(urls[0], "o=5") {
		t.Fatalf("single url should be page 5: %s", urls[0])
	}
}
