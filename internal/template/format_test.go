package template

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	ts := time.Date(2026, 4, 5, 14, 30, 0, 0, time.UTC)

	if got := FormatTime(ts, "vi-VN"); got != "14:30 05/04/2026" {
		t.Errorf("FormatTime(vi-VN) = %q", got)
	}
	if got := FormatTime(ts, "en-US"); got != "Apr 5, 2026 2:30 PM" {
		t.Errorf("FormatTime(en-US) = %q", got)
	}
	if got := FormatTime(ts, ""); got != "Apr 5, 2026 2:30 PM" {
		t.Errorf("FormatTime(empty locale) = %q", got)
	}
}

func TestFormatTimeString(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		locale string
		want   string
	}{
		{"rfc3339", "2026-04-05T14:30:00Z", "en", "Apr 5, 2026 2:30 PM"},
		{"no offset", "2026-04-05T14:30:00", "en", "Apr 5, 2026 2:30 PM"},
		{"date only", "2026-04-05", "vi", "00:00 05/04/2026"},
		{"empty renders placeholder", "", "en", "not available"},
		{"garbage renders placeholder", "next tuesday", "en", "not available"},
		{"vietnamese placeholder", "", "vi-VN", "không có"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeString(tt.raw, tt.locale); got != tt.want {
				t.Errorf("FormatTimeString(%q, %q) = %q, want %q", tt.raw, tt.locale, got, tt.want)
			}
		})
	}
}

func TestNotAvailable(t *testing.T) {
	if got := NotAvailable("vi_VN"); got != "không có" {
		t.Errorf("NotAvailable(vi_VN) = %q", got)
	}
	if got := NotAvailable("fr"); got != "not available" {
		t.Errorf("NotAvailable(fr) = %q, want english fallback", got)
	}
}
