// Package events defines the domain event types consumed from the bus,
// the status events published back, and the mapping from event type to
// notification category.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies a domain event. The event type doubles as the Kafka
// topic the event is delivered on.
type Type string

const (
	UserRegistered      Type = "user.registered"
	UserVerified        Type = "user.verified"
	KYCApproved         Type = "kyc.approved"
	KYCRejected         Type = "kyc.rejected"
	BookingCreated      Type = "booking.created"
	BookingConfirmed    Type = "booking.confirmed"
	BookingCancelled    Type = "booking.cancelled"
	PaymentCompleted    Type = "payment.completed"
	PaymentFailed       Type = "payment.failed"
	InvoiceGenerated    Type = "invoice.generated"
	DisputeCreated      Type = "dispute.created"
	DisputeResolved     Type = "dispute.resolved"
	DisputeMessageAdded Type = "dispute.message_added"
)

// Category groups notification types that share one preference toggle.
type Category string

const (
	CategoryAccount     Category = "account"
	CategoryBooking     Category = "booking"
	CategoryPayment     Category = "payment"
	CategoryMaintenance Category = "maintenance"
	CategoryVoting      Category = "voting"
	CategoryDispute     Category = "dispute"
)

// categories maps each consumed event type to its preference category.
var categories = map[Type]Category{
	UserRegistered:      CategoryAccount,
	UserVerified:        CategoryAccount,
	KYCApproved:         CategoryAccount,
	KYCRejected:         CategoryAccount,
	BookingCreated:      CategoryBooking,
	BookingConfirmed:    CategoryBooking,
	BookingCancelled:    CategoryBooking,
	PaymentCompleted:    CategoryPayment,
	PaymentFailed:       CategoryPayment,
	InvoiceGenerated:    CategoryPayment,
	DisputeCreated:      CategoryDispute,
	DisputeResolved:     CategoryDispute,
	DisputeMessageAdded: CategoryDispute,
}

// Category returns the notification category for this event type.
// Unknown event types fall back to the account category.
func (t Type) Category() Category {
	if c, ok := categories[t]; ok {
		return c
	}
	return CategoryAccount
}

// Consumed returns every event type this service subscribes to.
func Consumed() []Type {
	return []Type{
		UserRegistered, UserVerified,
		KYCApproved, KYCRejected,
		BookingCreated, BookingConfirmed, BookingCancelled,
		PaymentCompleted, PaymentFailed, InvoiceGenerated,
		DisputeCreated, DisputeResolved, DisputeMessageAdded,
	}
}

// Envelope is a domain event as read off the bus. The payload shape is
// event-type-specific and treated as untrusted: accessors return a
// presence flag so handlers can substitute defaults for optional fields.
type Envelope struct {
	EventType Type           `json:"eventType"`
	Payload   map[string]any `json:"payload"`
}

// Decode parses a raw bus message into an Envelope. When the message
// carries no eventType field the topic name is used instead.
func Decode(topic string, data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event from topic %s: %w", topic, err)
	}
	if env.EventType == "" {
		env.EventType = Type(topic)
	}
	if env.Payload == nil {
		env.Payload = make(map[string]any)
	}
	return &env, nil
}

// String returns the payload field as a string with a presence flag.
// Numeric values are formatted, so services that emit ids as numbers
// still resolve.
func (e *Envelope) String(key string) (string, bool) {
	v, ok := e.Payload[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return "", false
		}
		return s, true
	case float64:
		return formatNumber(s), true
	case bool:
		return fmt.Sprintf("%t", s), true
	default:
		return fmt.Sprintf("%v", s), true
	}
}

// StringOr returns the payload field as a string, or the fallback when
// the field is missing or empty.
func (e *Envelope) StringOr(key, fallback string) string {
	if s, ok := e.String(key); ok {
		return s
	}
	return fallback
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Status event topics published by this service.
const (
	TopicNotificationSent   = "notification.sent"
	TopicNotificationFailed = "notification.failed"
	TopicProviderStatus     = "notification.provider_status"
)

// NotificationSent is published after a notification was delivered on
// at least one channel.
type NotificationSent struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Channels       []string  `json:"channels"`
	Status         string    `json:"status"`
	SentAt         time.Time `json:"sent_at"`
}

// NotificationFailed is published when every attempted channel failed.
type NotificationFailed struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Channels       []string  `json:"channels"`
	Error          string    `json:"error"`
	FailedAt       time.Time `json:"failed_at"`
}

// ProviderStatus reports a delivery provider going up or down.
type ProviderStatus struct {
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
