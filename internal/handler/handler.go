// Package handler contains the domain event consumers: one handler per
// event type. Each handler derives a notification intent from the raw
// payload, resolves the recipient's channel preferences, and invokes
// the dispatcher. All errors are contained here; nothing propagates
// back into the subscription loop.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/bus"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/metrics"
)

// ChannelResolver resolves the enabled channels for a user and category
// at the current instant.
type ChannelResolver interface {
	Resolve(ctx context.Context, userID string, category events.Category) ([]channel.Channel, error)
}

// IntentDispatcher fans an intent out to the resolved channels.
type IntentDispatcher interface {
	Dispatch(ctx context.Context, intent *dispatch.Intent, channels []channel.Channel) *dispatch.DeliveryResult
}

// Handlers holds the consumers' shared dependencies. Handlers share no
// mutable state beyond these.
type Handlers struct {
	resolver   ChannelResolver
	dispatcher IntentDispatcher
	recipients RecipientResolver
	metrics    metrics.Recorder
}

// New creates the event handlers. The recipient resolver may be nil,
// in which case audience fan-out (e.g. notifying admins about a new
// dispute) is logged and skipped.
func New(resolver ChannelResolver, dispatcher IntentDispatcher, recipients RecipientResolver, rec metrics.Recorder) *Handlers {
	if recipients == nil {
		recipients = UnsupportedRecipientResolver{}
	}
	if rec == nil {
		rec = metrics.NewNoOp()
	}
	return &Handlers{
		resolver:   resolver,
		dispatcher: dispatcher,
		recipients: recipients,
		metrics:    rec,
	}
}

// Register subscribes every handler to its event type.
func (h *Handlers) Register(sub *bus.Subscriber) {
	sub.Subscribe(events.UserRegistered, h.HandleUserRegistered)
	sub.Subscribe(events.UserVerified, h.HandleUserVerified)
	sub.Subscribe(events.KYCApproved, h.HandleKYCApproved)
	sub.Subscribe(events.KYCRejected, h.HandleKYCRejected)
	sub.Subscribe(events.BookingCreated, h.HandleBookingCreated)
	sub.Subscribe(events.BookingConfirmed, h.HandleBookingConfirmed)
	sub.Subscribe(events.BookingCancelled, h.HandleBookingCancelled)
	sub.Subscribe(events.PaymentCompleted, h.HandlePaymentCompleted)
	sub.Subscribe(events.PaymentFailed, h.HandlePaymentFailed)
	sub.Subscribe(events.InvoiceGenerated, h.HandleInvoiceGenerated)
	sub.Subscribe(events.DisputeCreated, h.HandleDisputeCreated)
	sub.Subscribe(events.DisputeResolved, h.HandleDisputeResolved)
	sub.Subscribe(events.DisputeMessageAdded, h.HandleDisputeMessageAdded)
}

// deliver resolves preferences and dispatches one intent. This is the
// single choke point where consumer-side failures are absorbed.
func (h *Handlers) deliver(ctx context.Context, env *events.Envelope, intent *dispatch.Intent) {
	start := time.Now()
	h.metrics.RecordReceived()

	channels, err := h.resolver.Resolve(ctx, intent.UserID, intent.Category)
	if err != nil {
		// The resolver fails open, so an error here is unexpected.
		slog.Error("Preference resolution failed",
			"event_type", env.EventType,
			"user_id", intent.UserID,
			"error", err,
		)
		h.metrics.RecordError()
		return
	}

	h.dispatcher.Dispatch(ctx, intent, channels)
	h.metrics.RecordProcessed(time.Since(start))
}

// dropEvent logs a warning for an event that cannot be processed
// because a required field is missing. The event is consumed, not
// retried: redelivery cannot supply the missing field.
func (h *Handlers) dropEvent(env *events.Envelope, missing string) {
	slog.Warn("Dropping event with missing required field",
		"event_type", env.EventType,
		"missing", missing,
	)
	h.metrics.RecordError()
}

// dedupeKey builds the redelivery-protection key from the event type
// and the event's correlating entity id.
func dedupeKey(env *events.Envelope, entityID string) string {
	return fmt.Sprintf("%s:%s", env.EventType, entityID)
}
