package handler

import (
	"context"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// fallbackName is used when an event does not carry the user's name.
const fallbackName = "there"

// HandleUserRegistered sends the welcome notification.
// Required: userId. Optional: userName.
func (h *Handlers) HandleUserRegistered(ctx context.Context, env *events.Envelope) {
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "welcome_email",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name": env.StringOr("userName", fallbackName),
		},
		DedupeKey: dedupeKey(env, userID),
	})
}

// HandleUserVerified notifies the user their account was verified.
// Required: userId. Optional: userName.
func (h *Handlers) HandleUserVerified(ctx context.Context, env *events.Envelope) {
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "account_verified",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name": env.StringOr("userName", fallbackName),
		},
		DedupeKey: dedupeKey(env, userID),
	})
}

// HandleKYCApproved notifies the user their identity check passed.
// Required: userId. Optional: userName.
func (h *Handlers) HandleKYCApproved(ctx context.Context, env *events.Envelope) {
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "kyc_approved",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name": env.StringOr("userName", fallbackName),
		},
		DedupeKey: dedupeKey(env, userID),
	})
}

// HandleKYCRejected notifies the user their identity check failed.
// Required: userId. Optional: userName, reason.
func (h *Handlers) HandleKYCRejected(ctx context.Context, env *events.Envelope) {
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "kyc_rejected",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":        env.StringOr("userName", fallbackName),
			"rejection_reason": env.StringOr("reason", "Documents could not be verified"),
		},
		DedupeKey: dedupeKey(env, userID),
	})
}
