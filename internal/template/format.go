package template

import (
	"strings"
	"time"
)

// Date layouts per locale family. The platform launched in Vietnam, so
// "vi" gets day-first formatting; everything else falls back to an
// English layout.
const (
	layoutVI = "15:04 02/01/2006"
	layoutEN = "Jan 2, 2006 3:04 PM"
)

// notAvailable is the locale-specific token rendered when a date is
// missing or unparsable.
var notAvailable = map[string]string{
	"vi": "không có",
	"en": "not available",
}

// FormatTime formats a timestamp using the recipient's locale convention.
func FormatTime(t time.Time, locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "vi") {
		return t.Format(layoutVI)
	}
	return t.Format(layoutEN)
}

// FormatTimeString parses a raw timestamp (RFC 3339, with or without
// offset) and formats it for the locale. Missing or unparsable input
// renders as a "not available" token rather than failing the pipeline.
func FormatTimeString(raw, locale string) string {
	if raw == "" {
		return NotAvailable(locale)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return FormatTime(t, locale)
		}
	}
	return NotAvailable(locale)
}

// NotAvailable returns the locale's "not available" placeholder.
func NotAvailable(locale string) string {
	key := strings.ToLower(locale)
	if i := strings.IndexAny(key, "-_"); i > 0 {
		key = key[:i]
	}
	if s, ok := notAvailable[key]; ok {
		return s
	}
	return notAvailable["en"]
}
