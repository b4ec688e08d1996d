package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0"

// Client is the single browsing session shared across an entire run.
// Cookies and header identity persist between requests so every fetch
// presents as the same Firefox install. When a response looks like an
// anti-bot interstitial the URL is handed to the challenge solver,
// clearance cookies are harvested into the jar, and the request is
// retried once.
type Client struct {
	http      *http.Client
	solver    *ChallengeSolver
	userAgent string

	mu sync.Mutex // serializes solve attempts
}

func NewClient(solver *ChallengeSolver) *Client {
	jar, _ := cookiejar.New(nil)

	// HTTP/1.1 only; the h2 fingerprint of net/http is a known bot tell.
	transport := &http.Transport{
		ForceAttemptHTTP2: false,
		TLSNextProto:      make(map[string]func(string, *tls.Conn) http.RoundTripper),
	}

	return &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
			Jar:       jar,
		},
		solver:    solver,
		userAgent: defaultUserAgent,
	}
}

// Get fetches rawURL and returns the response body. Non-2xx statuses
// and unsolved challenges come back as errors; callers decide whether
// that means skip or abort.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if trigger := detectChallenge(status, body); trigger != "" {
		log.Printf("Challenge detected at %s (trigger: %q)", rawURL, trigger)
		if err := c.solve(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("challenge at %s: %w", rawURL, err)
		}

		body, status, err = c.fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if trigger := detectChallenge(status, body); trigger != "" {
			return nil, fmt.Errorf("challenge persisted at %s (trigger: %q)", rawURL, trigger)
		}
	}

	if status < 200 || status > 299 {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, status)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) solve(ctx context.Context, rawURL string) error {
	if c.solver == nil {
		return fmt.Errorf("no solver configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cookies, userAgent, err := c.solver.Solve(ctx, rawURL)
	if err != nil {
		return err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	c.http.Jar.SetCookies(u, cookies)
	if userAgent != "" {
		// The clearance cookie is bound to the browser that earned it.
		c.userAgent = userAgent
	}

	log.Printf("Challenge solved, %d cookies harvested", len(cookies))
	return nil
}

// Close releases the solver's browser, if one was ever started.
func (c *Client) Close() {
	if c.solver != nil {
		c.solver.Close()
	}
}

var challengeTriggers = []string{
	"Just a moment...",
	"cf-browser-verification",
	"challenge-platform",
	"Attention Required! | Cloudflare",
	"Checking if the site connection is secure",
}

// detectChallenge reports the interstitial marker found in body, or ""
// for an ordinary page. 403/503 alone is not enough: the site serves
// real 403s for dead listings too.
func detectChallenge(status int, body []byte) string {
	if status != http.StatusForbidden && status != http.StatusServiceUnavailable {
		return ""
	}
	content := string(body)
	for _, t := range challengeTriggers {
		if strings.Contains(content, t) {
			return t
		}
	}
	return ""
}
