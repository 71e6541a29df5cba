// Package dispatch turns a notification intent and a resolved channel
// set into per-channel sends and aggregates the outcomes into a single
// delivery result.
package dispatch

import (
	"time"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// Intent is the canonical, resolved request to notify one user via one
// template before channel fan-out. It is constructed per event and
// never persisted.
type Intent struct {
	TemplateKey string
	UserID      string
	Category    events.Category
	Variables   map[string]string

	// TimeVariables holds raw timestamps that are formatted with the
	// recipient's locale once the recipient is known. A value that does
	// not parse renders as a locale-specific "not available" token.
	TimeVariables map[string]string

	// DedupeKey is derived from the originating event so bus redelivery
	// does not double-send. Empty disables deduplication for this intent.
	DedupeKey string
}

// Status is the aggregated outcome of one dispatch.
type Status string

const (
	// StatusSent means every attempted channel succeeded.
	StatusSent Status = "sent"
	// StatusPartiallySent means some but not all channels succeeded.
	StatusPartiallySent Status = "partially_sent"
	// StatusFailed means every attempted channel failed.
	StatusFailed Status = "failed"
	// StatusSuppressed means the resolved channel set was empty. This is
	// a valid outcome, not a failure, and is never published as one.
	StatusSuppressed Status = "suppressed"
)

// DeliveryResult is the unit reported to the status publisher, built
// exactly once per intent.
type DeliveryResult struct {
	NotificationID    string
	UserID            string
	Type              string
	ChannelsAttempted []channel.Channel
	ChannelsSucceeded []channel.Channel
	Status            Status
	Error             string
	CompletedAt       time.Time
}
