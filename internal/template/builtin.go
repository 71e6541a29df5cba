package template

import "github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"

// builtin seeds the registry with the platform's notification templates.
// Keys match the template keys emitted by the event handlers.
var builtin = map[string]map[channel.Channel]Template{
	"welcome_email": {
		channel.Email: {
			Subject: "Welcome to EV Co-ownership, {{user_name}}!",
			Body:    "Hi {{user_name}},\n\nYour account is ready. Complete your KYC verification to start booking vehicles with your co-ownership group.\n\nThe EV Co-ownership Team",
		},
		channel.Push: {
			Subject: "Welcome!",
			Body:    "Hi {{user_name}}, your account is ready.",
		},
	},
	"account_verified": {
		channel.Email: {
			Subject: "Your account has been verified",
			Body:    "Hi {{user_name}},\n\nYour email address has been verified. You can now join a co-ownership group.",
		},
		channel.Push: {
			Subject: "Account verified",
			Body:    "Your account has been verified.",
		},
	},
	"kyc_approved": {
		channel.Email: {
			Subject: "KYC verification approved",
			Body:    "Hi {{user_name}},\n\nYour identity verification was approved. You now have full access to bookings and payments.",
		},
		channel.SMS: {
			Body: "Your KYC verification was approved. You now have full access.",
		},
		channel.Push: {
			Subject: "KYC approved",
			Body:    "Your identity verification was approved.",
		},
	},
	"kyc_rejected": {
		channel.Email: {
			Subject: "KYC verification needs attention",
			Body:    "Hi {{user_name}},\n\nYour identity verification could not be approved.\nReason: {{rejection_reason}}\n\nPlease resubmit your documents.",
		},
		channel.SMS: {
			Body: "Your KYC verification was rejected: {{rejection_reason}}. Please resubmit.",
		},
		channel.Push: {
			Subject: "KYC needs attention",
			Body:    "Your verification could not be approved. Please resubmit your documents.",
		},
	},
	"booking_created": {
		channel.Email: {
			Subject: "Booking request received for {{vehicle_name}}",
			Body:    "Hi {{user_name}},\n\nWe received your booking request for {{vehicle_name}}.\nFrom: {{start_time}}\nTo: {{end_time}}\n\nYou will be notified once the booking is confirmed.",
		},
		channel.Push: {
			Subject: "Booking received",
			Body:    "Booking request for {{vehicle_name}} from {{start_time}} received.",
		},
	},
	"booking_confirmed": {
		channel.Email: {
			Subject: "Booking confirmed for {{vehicle_name}}",
			Body:    "Hi {{user_name}},\n\nYour booking for {{vehicle_name}} is confirmed.\nFrom: {{start_time}}\nTo: {{end_time}}\n\nEnjoy your trip!",
		},
		channel.SMS: {
			Body: "Booking confirmed: {{vehicle_name}}, {{start_time}} - {{end_time}}.",
		},
		channel.Push: {
			Subject: "Booking confirmed",
			Body:    "{{vehicle_name}} is yours from {{start_time}}.",
		},
	},
	"booking_cancelled": {
		channel.Email: {
			Subject: "Booking cancelled for {{vehicle_name}}",
			Body:    "Hi {{user_name}},\n\nYour booking for {{vehicle_name}} was cancelled.\nReason: {{cancellation_reason}}",
		},
		channel.SMS: {
			Body: "Booking for {{vehicle_name}} cancelled: {{cancellation_reason}}",
		},
		channel.Push: {
			Subject: "Booking cancelled",
			Body:    "Your booking for {{vehicle_name}} was cancelled.",
		},
	},
	"payment_completed": {
		channel.Email: {
			Subject: "Payment received: {{amount}}",
			Body:    "Hi {{user_name}},\n\nWe received your payment of {{amount}}.\nReference: {{payment_id}}\n\nThank you.",
		},
		channel.Push: {
			Subject: "Payment received",
			Body:    "Payment of {{amount}} received.",
		},
	},
	"payment_failed": {
		channel.Email: {
			Subject: "Payment failed",
			Body:    "Hi {{user_name}},\n\nYour payment of {{amount}} could not be processed.\nReason: {{failure_reason}}\n\nPlease update your payment method and try again.",
		},
		channel.SMS: {
			Body: "Payment of {{amount}} failed: {{failure_reason}}. Please retry.",
		},
		channel.Push: {
			Subject: "Payment failed",
			Body:    "Your payment of {{amount}} could not be processed.",
		},
	},
	"invoice_generated": {
		channel.Email: {
			Subject: "Your invoice {{invoice_number}} is ready",
			Body:    "Hi {{user_name}},\n\nInvoice {{invoice_number}} for {{amount}} has been generated and is available in your account.",
		},
		channel.Push: {
			Subject: "Invoice ready",
			Body:    "Invoice {{invoice_number}} for {{amount}} is available.",
		},
	},
	"dispute_created": {
		channel.Email: {
			Subject: "Your dispute has been opened",
			Body:    "Hi {{user_name}},\n\nYour dispute \"{{dispute_title}}\" has been opened. Our team will review it and get back to you.",
		},
		channel.SMS: {
			Body: "Your dispute \"{{dispute_title}}\" has been opened.",
		},
		channel.Push: {
			Subject: "Dispute opened",
			Body:    "Your dispute \"{{dispute_title}}\" has been opened.",
		},
	},
	"dispute_resolved": {
		channel.Email: {
			Subject: "Your dispute has been resolved",
			Body:    "Hi {{user_name}},\n\nYour dispute \"{{dispute_title}}\" has been resolved.\nResolution: {{resolution}}",
		},
		channel.SMS: {
			Body: "Dispute \"{{dispute_title}}\" resolved: {{resolution}}",
		},
		channel.Push: {
			Subject: "Dispute resolved",
			Body:    "Your dispute \"{{dispute_title}}\" has been resolved.",
		},
	},
	"dispute_message": {
		channel.Email: {
			Subject: "New message on your dispute",
			Body:    "Hi {{user_name}},\n\nThere is a new message on your dispute \"{{dispute_title}}\":\n\n{{message_preview}}",
		},
		channel.Push: {
			Subject: "New dispute message",
			Body:    "New message on \"{{dispute_title}}\".",
		},
	},
}
