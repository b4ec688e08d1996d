package scraper

import (
	"strings"
	"time"
)

// normalizePublished rewrites the site's relative publish stamps
// ("Yesterday 10:30", "Today 08:00") into absolute dates, keeping the
// original time-of-day part. Absolute stamps pass through untouched
// and an empty input stays empty.
func normalizePublished(raw string, now time.Time) string {
	if raw == "" {
		return ""
	}

	var date time.Time
	switch {
	case strings.Contains(raw, "Yesterday"):
		date = now.AddDate(0, 0, -1)
	case strings.Contains(raw, "Today"):
		date = now
	default:
		return raw
	}

	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return raw
	}
	return date.Format("2006-01-02") + " " + fields[1]
}
