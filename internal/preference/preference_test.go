package preference

import (
	"testing"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
)

func boolPtr(b bool) *bool { return &b }

func TestToggles_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		toggles Toggles
		ch      channel.Channel
		want    bool
	}{
		{
			name:    "unset defaults to enabled",
			toggles: Toggles{},
			ch:      channel.Email,
			want:    true,
		},
		{
			name:    "explicit true",
			toggles: Toggles{SMS: boolPtr(true)},
			ch:      channel.SMS,
			want:    true,
		},
		{
			name:    "explicit false disables",
			toggles: Toggles{Push: boolPtr(false)},
			ch:      channel.Push,
			want:    false,
		},
		{
			name:    "unknown channel is disabled",
			toggles: Toggles{},
			ch:      channel.Channel("fax"),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.toggles.Enabled(tt.ch); got != tt.want {
				t.Errorf("Enabled(%s) = %v, want %v", tt.ch, got, tt.want)
			}
		})
	}
}

func TestDocument_Eligible(t *testing.T) {
	// Master: email on, sms off, push on.
	// Category booking: email on, sms on, push off.
	doc := &Document{
		Channels: Toggles{
			Email: boolPtr(true),
			SMS:   boolPtr(false),
			Push:  boolPtr(true),
		},
		Categories: map[string]Toggles{
			"booking": {
				Email: boolPtr(true),
				SMS:   boolPtr(true),
				Push:  boolPtr(false),
			},
		},
	}

	tests := []struct {
		name     string
		ch       channel.Channel
		category string
		want     bool
	}{
		{"email on at both levels", channel.Email, "booking", true},
		{"sms off at master level", channel.SMS, "booking", false},
		{"push off at category level", channel.Push, "booking", false},
		{"missing category falls back to master", channel.Email, "payment", true},
		{"missing category still honors master off", channel.SMS, "payment", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Eligible(tt.ch, tt.category); got != tt.want {
				t.Errorf("Eligible(%s, %s) = %v, want %v", tt.ch, tt.category, got, tt.want)
			}
		})
	}
}

func TestDocument_Eligible_EmptyDocument(t *testing.T) {
	doc := &Document{}
	for _, ch := range channel.All() {
		if !doc.Eligible(ch, "booking") {
			t.Errorf("empty document should enable %s", ch)
		}
	}
}
