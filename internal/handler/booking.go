package handler

import (
	"context"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// bookingIntent builds the shared intent shape for booking lifecycle
// events. Start and end times are raw here and formatted with the
// recipient's locale at dispatch time.
func bookingIntent(env *events.Envelope, templateKey, userID, bookingID string, extra map[string]string) *dispatch.Intent {
	vars := map[string]string{
		"user_name":    env.StringOr("userName", fallbackName),
		"vehicle_name": env.StringOr("vehicleName", "your vehicle"),
		"booking_id":   bookingID,
	}
	for k, v := range extra {
		vars[k] = v
	}

	return &dispatch.Intent{
		TemplateKey: templateKey,
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables:   vars,
		TimeVariables: map[string]string{
			"start_time": env.StringOr("startTime", ""),
			"end_time":   env.StringOr("endTime", ""),
		},
		DedupeKey: dedupeKey(env, bookingID),
	}
}

// HandleBookingCreated confirms receipt of a booking request.
// Required: bookingId, userId. Optional: userName, vehicleName,
// startTime, endTime.
func (h *Handlers) HandleBookingCreated(ctx context.Context, env *events.Envelope) {
	bookingID, ok := env.String("bookingId")
	if !ok {
		h.dropEvent(env, "bookingId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, bookingIntent(env, "booking_created", userID, bookingID, nil))
}

// HandleBookingConfirmed notifies the user their booking went through.
// Required: bookingId, userId.
func (h *Handlers) HandleBookingConfirmed(ctx context.Context, env *events.Envelope) {
	bookingID, ok := env.String("bookingId")
	if !ok {
		h.dropEvent(env, "bookingId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, bookingIntent(env, "booking_confirmed", userID, bookingID, nil))
}

// HandleBookingCancelled notifies the user their booking was cancelled.
// Required: bookingId, userId. Optional: cancellationReason, which
// falls back to a neutral placeholder.
func (h *Handlers) HandleBookingCancelled(ctx context.Context, env *events.Envelope) {
	bookingID, ok := env.String("bookingId")
	if !ok {
		h.dropEvent(env, "bookingId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, bookingIntent(env, "booking_cancelled", userID, bookingID, map[string]string{
		"cancellation_reason": env.StringOr("cancellationReason", "No reason provided"),
	}))
}
