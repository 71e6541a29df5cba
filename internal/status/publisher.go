// Package status publishes delivery outcomes back onto the event bus.
// Publishing is best-effort: when the bus is not connected the calls
// are silent no-ops, and publish failures are logged but never surface
// into the dispatch path.
package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/bus"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// busPublisher is the slice of the bus adapter the status publisher
// uses, kept narrow so tests can fake it.
type busPublisher interface {
	State() bus.State
	Publish(ctx context.Context, topic, key string, payload any) error
}

// Publisher emits notification.sent, notification.failed, and
// provider_status events.
type Publisher struct {
	bus busPublisher
}

// NewPublisher creates a status publisher on top of the bus adapter.
func NewPublisher(b busPublisher) *Publisher {
	return &Publisher{bus: b}
}

// PublishResult publishes the delivery result. Sent and partially sent
// results go to notification.sent, total failures to
// notification.failed. Suppressed results publish nothing: suppression
// is a preference outcome, not a failure.
func (p *Publisher) PublishResult(ctx context.Context, res *dispatch.DeliveryResult) {
	if res == nil || res.Status == dispatch.StatusSuppressed {
		return
	}
	if !p.connected() {
		return
	}

	switch res.Status {
	case dispatch.StatusSent, dispatch.StatusPartiallySent:
		p.publish(ctx, events.TopicNotificationSent, res.UserID, events.NotificationSent{
			NotificationID: res.NotificationID,
			UserID:         res.UserID,
			Type:           res.Type,
			Channels:       channelNames(res.ChannelsSucceeded),
			Status:         string(res.Status),
			SentAt:         res.CompletedAt,
		})
	case dispatch.StatusFailed:
		p.publish(ctx, events.TopicNotificationFailed, res.UserID, events.NotificationFailed{
			NotificationID: res.NotificationID,
			UserID:         res.UserID,
			Type:           res.Type,
			Channels:       channelNames(res.ChannelsAttempted),
			Error:          res.Error,
			FailedAt:       res.CompletedAt,
		})
	}
}

// PublishProviderStatus reports a delivery provider going up or down,
// e.g. when the email sender fails over from its primary provider.
func (p *Publisher) PublishProviderStatus(ctx context.Context, provider, providerStatus string) {
	if !p.connected() {
		return
	}
	p.publish(ctx, events.TopicProviderStatus, provider, events.ProviderStatus{
		Provider:  provider,
		Status:    providerStatus,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) connected() bool {
	if p.bus.State() == bus.StateConnected {
		return true
	}
	slog.Debug("Bus not connected, skipping status publish", "state", p.bus.State())
	return false
}

func (p *Publisher) publish(ctx context.Context, topic, key string, payload any) {
	if err := p.bus.Publish(ctx, topic, key, payload); err != nil {
		slog.Error("Failed to publish status event",
			"topic", topic,
			"key", key,
			"error", err,
		)
	}
}

func channelNames(chs []channel.Channel) []string {
	names := make([]string, len(chs))
	for i, ch := range chs {
		names[i] = string(ch)
	}
	return names
}
