// Package preference models per-user notification preferences and
// resolves the set of channels a notification may use at a given moment.
package preference

import (
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
)

// Toggles holds per-channel switches. A nil field means the switch was
// never set and defaults to enabled; only an explicit false disables.
type Toggles struct {
	Email *bool `json:"email,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
	Push  *bool `json:"push,omitempty"`
}

// Enabled reports whether the given channel is enabled by these toggles.
func (t Toggles) Enabled(ch channel.Channel) bool {
	var v *bool
	switch ch {
	case channel.Email:
		v = t.Email
	case channel.SMS:
		v = t.SMS
	case channel.Push:
		v = t.Push
	default:
		return false
	}
	return v == nil || *v
}

// QuietHours is a local time window during which non-urgent
// notifications are suppressed. Start and End use "HH:MM" and the
// window may wrap midnight (Start > End).
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Document is the preference document stored per user. Absent fields
// fail open: a missing category entry or channel switch means enabled.
type Document struct {
	Channels   Toggles            `json:"channels"`
	Categories map[string]Toggles `json:"categories"`
	QuietHours QuietHours         `json:"quietHours"`
	Timezone   string             `json:"timezone,omitempty"`
}

// Eligible reports whether a channel may be used for the given category:
// both the master switch and the category switch must allow it.
func (d *Document) Eligible(ch channel.Channel, category string) bool {
	if !d.Channels.Enabled(ch) {
		return false
	}
	cat, ok := d.Categories[category]
	if !ok {
		return true
	}
	return cat.Enabled(ch)
}
