package httputil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ChallengeSolver drives a real Chromium through an anti-bot
// interstitial and hands the resulting clearance cookies back to the
// HTTP session. The browser context is persistent so a clearance
// earned once survives across solves.
type ChallengeSolver struct {
	headless bool

	mu          sync.Mutex
	pw          *playwright.Playwright
	browserCtx  playwright.BrowserContext
	initialized bool
}

func NewChallengeSolver(headless bool) *ChallengeSolver {
	return &ChallengeSolver{headless: headless}
}

func (s *ChallengeSolver) ensureBrowser() error {
	if s.initialized {
		return nil
	}

	var err error
	s.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	cwd, _ := os.Getwd()
	userDataDir := filepath.Join(cwd, "browser_data")
	s.browserCtx, err = s.pw.Chromium.LaunchPersistentContext(userDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(s.headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	s.initialized = true
	return nil
}

// Solve loads rawURL, waits out the challenge and returns the
// context's cookies plus the browser's real user agent.
func (s *ChallengeSolver) Solve(ctx context.Context, rawURL string) ([]*http.Cookie, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureBrowser(); err != nil {
		return nil, "", err
	}

	page, err := s.browserCtx.NewPage()
	if err != nil {
		return nil, "", fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(rawURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(60000),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, "", fmt.Errorf("goto: %w", err)
	}

	// Poll until the interstitial markers disappear. Some variants need
	// a checkbox click, usually inside an iframe.
	cleared := false
	for i := 0; i < 30; i++ {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		content, _ := page.Content()
		if pageTrigger(content) == "" {
			cleared = true
			break
		}
		s.clickThrough(page)
		page.WaitForTimeout(1000)
	}
	if !cleared {
		return nil, "", fmt.Errorf("challenge did not clear for %s", rawURL)
	}

	rawCookies, err := s.browserCtx.Cookies()
	if err != nil {
		return nil, "", fmt.Errorf("read cookies: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(rawCookies))
	for _, c := range rawCookies {
		cookies = append(cookies, &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Path:   c.Path,
			Domain: c.Domain,
			Secure: c.Secure,
		})
	}

	userAgent := ""
	if result, err := page.Evaluate(`navigator.userAgent`); err == nil {
		if ua, ok := result.(string); ok {
			userAgent = ua
		}
	}

	return cookies, userAgent, nil
}

func (s *ChallengeSolver) clickThrough(page playwright.Page) {
	selectors := []string{
		"input[type='checkbox']",
		"[id*='checkbox']",
		"button:has-text('Verify')",
		"button:has-text('Continue')",
	}

	for _, sel := range selectors {
		el := page.Locator(sel).First()
		if visible, _ := el.IsVisible(); visible {
			el.Click()
			page.WaitForTimeout(2000)
			return
		}
	}

	for _, frame := range page.Frames() {
		if frame == page.MainFrame() {
			continue
		}
		for _, sel := range selectors {
			el := frame.Locator(sel).First()
			if visible, _ := el.IsVisible(); visible {
				el.Click()
				page.WaitForTimeout(2000)
				return
			}
		}
	}
}

func (s *ChallengeSolver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil {
		s.browserCtx.Close()
	}
	if s.pw != nil {
		s.pw.Stop()
	}
	s.initialized = false
}

func pageTrigger(content string) string {
	for _, t := range challengeTriggers {
		if strings.Contains(content, t) {
			return t
		}
	}
	return ""
}
