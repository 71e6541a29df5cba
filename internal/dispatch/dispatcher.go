package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/metrics"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/retry"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/template"
)

// Renderer resolves a template key into channel-ready content.
type Renderer interface {
	Render(key string, ch channel.Channel, vars map[string]string) (channel.Message, error)

	// Supports reports whether a template variant exists for the
	// channel. Channels without a variant are not attempted.
	Supports(key string, ch channel.Channel) bool
}

// Directory looks up the contact details for a user.
type Directory interface {
	GetRecipient(ctx context.Context, userID string) (*channel.Recipient, error)
}

// StatusPublisher reports the delivery result back onto the bus.
// Implementations are best-effort and never return an error into the
// dispatch path.
type StatusPublisher interface {
	PublishResult(ctx context.Context, res *DeliveryResult)
}

// Deduper guards against double-sends on bus redelivery.
type Deduper interface {
	ClaimDispatch(ctx context.Context, key string) (bool, error)
}

// Dispatcher fans one intent out to every resolved channel. Channels
// are processed independently: one channel failing is recorded but does
// not stop the remaining attempts.
type Dispatcher struct {
	registry  *channel.Registry
	renderer  Renderer
	directory Directory
	status    StatusPublisher
	deduper   Deduper
	metrics   metrics.Recorder
	retryCfg  retry.Config
}

// NewDispatcher creates a dispatcher. The deduper may be nil to disable
// redelivery protection.
func NewDispatcher(registry *channel.Registry, renderer Renderer, directory Directory, status StatusPublisher, deduper Deduper, rec metrics.Recorder) *Dispatcher {
	if rec == nil {
		rec = metrics.NewNoOp()
	}
	return &Dispatcher{
		registry:  registry,
		renderer:  renderer,
		directory: directory,
		status:    status,
		deduper:   deduper,
		metrics:   rec,
		retryCfg:  retry.DefaultConfig(),
	}
}

// Dispatch attempts every channel in the resolved set and builds one
// DeliveryResult, which is handed to the status publisher exactly once.
// A duplicate delivery (already-claimed dedupe key) returns nil and
// publishes nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, intent *Intent, channels []channel.Channel) *DeliveryResult {
	if d.deduper != nil && intent.DedupeKey != "" {
		claimed, err := d.deduper.ClaimDispatch(ctx, intent.DedupeKey)
		if err != nil {
			// Dedupe is protection, not a gate: on error we still send.
			slog.Warn("Dedupe claim failed, dispatching anyway",
				"dedupe_key", intent.DedupeKey,
				"error", err,
			)
		} else if !claimed {
			slog.Info("Skipping duplicate dispatch",
				"dedupe_key", intent.DedupeKey,
				"user_id", intent.UserID,
				"template_key", intent.TemplateKey,
			)
			return nil
		}
	}

	// Not every notification type targets every channel: a channel with
	// no template variant for this key is inapplicable, not failed.
	channels = d.applicableChannels(intent.TemplateKey, channels)

	result := &DeliveryResult{
		NotificationID:    uuid.NewString(),
		UserID:            intent.UserID,
		Type:              intent.TemplateKey,
		ChannelsAttempted: channels,
	}

	if len(channels) == 0 {
		result.Status = StatusSuppressed
		result.CompletedAt = time.Now().UTC()
		slog.Info("Notification suppressed by preferences",
			"notification_id", result.NotificationID,
			"user_id", intent.UserID,
			"template_key", intent.TemplateKey,
		)
		d.metrics.RecordSuppressed()
		d.status.PublishResult(ctx, result)
		return result
	}

	rcpt, err := d.directory.GetRecipient(ctx, intent.UserID)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		result.CompletedAt = time.Now().UTC()
		slog.Error("Recipient lookup failed",
			"notification_id", result.NotificationID,
			"user_id", intent.UserID,
			"error", err,
		)
		d.metrics.RecordFailed()
		d.status.PublishResult(ctx, result)
		return result
	}

	vars := intent.Variables
	if len(intent.TimeVariables) > 0 {
		merged := make(map[string]string, len(vars)+len(intent.TimeVariables))
		for k, v := range vars {
			merged[k] = v
		}
		for k, raw := range intent.TimeVariables {
			merged[k] = template.FormatTimeString(raw, rcpt.Locale)
		}
		vars = merged
	}

	var errs []string
	for _, ch := range channels {
		if err := d.sendOne(ctx, intent, ch, vars, *rcpt, result.NotificationID); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", ch, err.Error()))
			continue
		}
		result.ChannelsSucceeded = append(result.ChannelsSucceeded, ch)
	}

	switch {
	case len(result.ChannelsSucceeded) == len(channels):
		result.Status = StatusSent
		d.metrics.RecordSent()
	case len(result.ChannelsSucceeded) > 0:
		result.Status = StatusPartiallySent
		result.Error = strings.Join(errs, "; ")
		d.metrics.RecordPartial()
		slog.Warn("Notification partially sent",
			"notification_id", result.NotificationID,
			"user_id", intent.UserID,
			"succeeded", result.ChannelsSucceeded,
			"errors", result.Error,
		)
	default:
		result.Status = StatusFailed
		result.Error = strings.Join(errs, "; ")
		d.metrics.RecordFailed()
		slog.Error("Notification failed on all channels",
			"notification_id", result.NotificationID,
			"user_id", intent.UserID,
			"channels", channels,
			"errors", result.Error,
		)
	}

	result.CompletedAt = time.Now().UTC()
	d.status.PublishResult(ctx, result)
	return result
}

// applicableChannels filters the resolved set down to channels that
// have a template variant for the key.
func (d *Dispatcher) applicableChannels(key string, channels []channel.Channel) []channel.Channel {
	applicable := make([]channel.Channel, 0, len(channels))
	for _, ch := range channels {
		if !d.renderer.Supports(key, ch) {
			slog.Debug("Channel has no template for notification type",
				"template_key", key,
				"channel", ch,
			)
			continue
		}
		applicable = append(applicable, ch)
	}
	return applicable
}

// sendOne renders and sends on a single channel, retrying transient
// failures with backoff.
func (d *Dispatcher) sendOne(ctx context.Context, intent *Intent, ch channel.Channel, vars map[string]string, rcpt channel.Recipient, notificationID string) error {
	sender, ok := d.registry.Get(ch)
	if !ok {
		return fmt.Errorf("no sender registered for channel %s", ch)
	}

	msg, err := d.renderer.Render(intent.TemplateKey, ch, vars)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	operation := fmt.Sprintf("send_%s_%s", ch, notificationID)
	if err := retry.WithRetry(ctx, d.retryCfg, operation, func() error {
		return sender.Send(ctx, msg, rcpt)
	}); err != nil {
		return err
	}

	slog.Debug("Channel send succeeded",
		"notification_id", notificationID,
		"channel", ch,
		"user_id", intent.UserID,
	)
	return nil
}
