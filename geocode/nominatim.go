package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mudah_scraper/config"
)

// Client resolves free-text addresses against a Nominatim-compatible
// endpoint. Transient failures (timeouts, 429, 5xx) are retried with
// exponential backoff up to MaxAttempts; after that the address is
// reported unresolved instead of being retried forever.
type Client struct {
	http        *http.Client
	endpoint    string
	userAgent   string
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

func NewClient(cfg config.GeocoderConfig) *Client {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		endpoint:    cfg.Endpoint,
		userAgent:   cfg.UserAgent,
		maxAttempts: attempts,
		baseDelay:   cfg.BaseDelay,
		sleep:       time.Sleep,
	}
}

// Geocode returns the best coordinate match for address. ok is false
// both for an address the service doesn't know and for one that stayed
// unresolvable after all retry attempts.
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, bool) {
	delay := c.baseDelay
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		lat, lon, found, err := c.lookup(ctx, address)
		if err == nil {
			return lat, lon, found
		}
		lastErr = err

		if attempt < c.maxAttempts {
			log.Printf("Geocode failed (attempt %d/%d) for %q: %v, retrying in %v",
				attempt, c.maxAttempts, address, err, delay)
			c.sleep(delay)
			delay *= 2
		}
	}

	log.Printf("Geocode unresolved after %d attempts for %q: %v", c.maxAttempts, address, lastErr)
	return 0, 0, false
}

func (c *Client) lookup(ctx context.Context, address string) (float64, float64, bool, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, false, err
	}
	if len(results) == 0 {
		// Definitive answer: the service doesn't know this address.
		return 0, 0, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("bad longitude %q: %w", results[0].Lon, err)
	}
	return lat, lon, true, nil
}
