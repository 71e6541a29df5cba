package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// adminAudience is the audience the dispute handlers try to fan out to
// in addition to the disputing user.
const adminAudience = "admins"

// HandleDisputeCreated notifies the disputing user and, when the
// recipient resolver supports it, the operations team.
// Required: disputeId, userId. Optional: userName, title.
func (h *Handlers) HandleDisputeCreated(ctx context.Context, env *events.Envelope) {
	disputeID, ok := env.String("disputeId")
	if !ok {
		h.dropEvent(env, "disputeId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "dispute_created",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":     env.StringOr("userName", fallbackName),
			"dispute_title": env.StringOr("title", "your dispute"),
		},
		DedupeKey: dedupeKey(env, disputeID),
	})

	h.notifyAudience(ctx, env, adminAudience, disputeID)
}

// HandleDisputeResolved notifies the disputing user of the resolution.
// Required: disputeId, userId. Optional: title, resolution.
func (h *Handlers) HandleDisputeResolved(ctx context.Context, env *events.Envelope) {
	disputeID, ok := env.String("disputeId")
	if !ok {
		h.dropEvent(env, "disputeId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "dispute_resolved",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":     env.StringOr("userName", fallbackName),
			"dispute_title": env.StringOr("title", "your dispute"),
			"resolution":    env.StringOr("resolution", ""),
		},
		DedupeKey: dedupeKey(env, disputeID),
	})
}

// HandleDisputeMessageAdded notifies the other party about a new
// message on a dispute. Required: disputeId, recipientId (the user to
// notify, not the author). Optional: title, messagePreview.
func (h *Handlers) HandleDisputeMessageAdded(ctx context.Context, env *events.Envelope) {
	disputeID, ok := env.String("disputeId")
	if !ok {
		h.dropEvent(env, "disputeId")
		return
	}
	recipientID, ok := env.String("recipientId")
	if !ok {
		h.dropEvent(env, "recipientId")
		return
	}
	messageID := env.StringOr("messageId", disputeID)

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "dispute_message",
		UserID:      recipientID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":       env.StringOr("recipientName", fallbackName),
			"dispute_title":   env.StringOr("title", "your dispute"),
			"message_preview": env.StringOr("messagePreview", ""),
		},
		DedupeKey: dedupeKey(env, messageID),
	})
}

// notifyAudience resolves an audience to user ids and dispatches to
// each. An unsupported audience is a known gap: the lookup lives in the
// user service, so the default resolver reports ErrNoRecipients and we
// log an informational note instead of failing the event.
func (h *Handlers) notifyAudience(ctx context.Context, env *events.Envelope, audience, entityID string) {
	userIDs, err := h.recipients.ResolveAudience(ctx, audience)
	if err != nil {
		if errors.Is(err, ErrNoRecipients) {
			slog.Info("Audience fan-out not available, notifying requester only",
				"event_type", env.EventType,
				"audience", audience,
				"entity_id", entityID,
			)
			return
		}
		slog.Error("Audience resolution failed",
			"event_type", env.EventType,
			"audience", audience,
			"error", err,
		)
		return
	}

	for _, userID := range userIDs {
		h.deliver(ctx, env, &dispatch.Intent{
			TemplateKey: "dispute_created",
			UserID:      userID,
			Category:    env.EventType.Category(),
			Variables: map[string]string{
				"user_name":     fallbackName,
				"dispute_title": env.StringOr("title", "a new dispute"),
			},
			DedupeKey: dedupeKey(env, entityID) + ":" + userID,
		})
	}
}
