package handler

import (
	"context"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// HandlePaymentCompleted confirms a received payment.
// Required: paymentId, userId. Optional: userName, amount.
func (h *Handlers) HandlePaymentCompleted(ctx context.Context, env *events.Envelope) {
	paymentID, ok := env.String("paymentId")
	if !ok {
		h.dropEvent(env, "paymentId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "payment_completed",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":  env.StringOr("userName", fallbackName),
			"amount":     env.StringOr("amount", ""),
			"payment_id": paymentID,
		},
		DedupeKey: dedupeKey(env, paymentID),
	})
}

// HandlePaymentFailed notifies the user a payment could not be
// processed. Required: paymentId, userId. Optional: amount, reason.
func (h *Handlers) HandlePaymentFailed(ctx context.Context, env *events.Envelope) {
	paymentID, ok := env.String("paymentId")
	if !ok {
		h.dropEvent(env, "paymentId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "payment_failed",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":      env.StringOr("userName", fallbackName),
			"amount":         env.StringOr("amount", ""),
			"failure_reason": env.StringOr("reason", "Payment was declined"),
			"payment_id":     paymentID,
		},
		DedupeKey: dedupeKey(env, paymentID),
	})
}

// HandleInvoiceGenerated notifies the user a new invoice is available.
// Required: invoiceId, userId. Optional: invoiceNumber, amount.
func (h *Handlers) HandleInvoiceGenerated(ctx context.Context, env *events.Envelope) {
	invoiceID, ok := env.String("invoiceId")
	if !ok {
		h.dropEvent(env, "invoiceId")
		return
	}
	userID, ok := env.String("userId")
	if !ok {
		h.dropEvent(env, "userId")
		return
	}

	h.deliver(ctx, env, &dispatch.Intent{
		TemplateKey: "invoice_generated",
		UserID:      userID,
		Category:    env.EventType.Category(),
		Variables: map[string]string{
			"user_name":      env.StringOr("userName", fallbackName),
			"invoice_number": env.StringOr("invoiceNumber", invoiceID),
			"amount":         env.StringOr("amount", ""),
		},
		DedupeKey: dedupeKey(env, invoiceID),
	})
}
