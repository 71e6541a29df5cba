package preference

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// Fetcher reads a user's preference document from the external store.
// A nil document with a nil error means the user has no document.
type Fetcher interface {
	GetPreferences(ctx context.Context, userID string) (*Document, error)
}

// Resolver computes the set of enabled channels for (user, category) at
// the current instant, applying quiet-hours suppression.
type Resolver struct {
	store  Fetcher
	urgent map[events.Category]bool
	now    func() time.Time
}

// NewResolver creates a resolver. Urgent categories bypass quiet hours.
func NewResolver(store Fetcher, urgent []events.Category) *Resolver {
	set := make(map[events.Category]bool, len(urgent))
	for _, c := range urgent {
		set[c] = true
	}
	return &Resolver{
		store:  store,
		urgent: set,
		now:    time.Now,
	}
}

// Resolve returns the channels a notification for this user and category
// may use right now. An empty slice is valid and means the notification
// is suppressed entirely. Store errors fail open to the default document
// so a degraded store never blocks delivery.
func (r *Resolver) Resolve(ctx context.Context, userID string, category events.Category) ([]channel.Channel, error) {
	doc, err := r.store.GetPreferences(ctx, userID)
	if err != nil {
		slog.Warn("Preference read failed, using fail-open defaults",
			"user_id", userID,
			"error", err,
		)
		doc = nil
	}
	if doc == nil {
		// No document: all channels enabled, no quiet hours.
		doc = &Document{}
	}

	enabled := make([]channel.Channel, 0, 3)
	for _, ch := range channel.All() {
		if doc.Eligible(ch, string(category)) {
			enabled = append(enabled, ch)
		}
	}

	if len(enabled) == 0 || r.urgent[category] {
		return enabled, nil
	}

	if inQuietHours(doc.QuietHours, r.localNow(doc.Timezone)) {
		slog.Debug("Quiet hours active, suppressing notification",
			"user_id", userID,
			"category", category,
		)
		return nil, nil
	}

	return enabled, nil
}

func (r *Resolver) localNow(tz string) time.Time {
	now := r.now()
	if tz == "" {
		return now
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("Unknown preference timezone, using server time", "timezone", tz)
		return now
	}
	return now.In(loc)
}

// inQuietHours reports whether t falls inside the window. The start is
// inclusive and the end exclusive. A window with start == end is treated
// as disabled. Malformed times disable the window rather than suppress.
func inQuietHours(qh QuietHours, t time.Time) bool {
	if !qh.Enabled {
		return false
	}
	start, okStart := parseMinutes(qh.Start)
	end, okEnd := parseMinutes(qh.End)
	if !okStart || !okEnd || start == end {
		return false
	}

	minute := t.Hour()*60 + t.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// Window wraps midnight.
	return minute >= start || minute < end
}

// parseMinutes converts "HH:MM" to minutes since midnight.
func parseMinutes(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
