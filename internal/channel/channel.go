// Package channel defines the delivery channel abstraction and the
// registry of channel senders. It uses the strategy pattern so new
// channels can be added without touching the dispatcher.
package channel

import "context"

// Channel identifies a delivery medium.
type Channel string

const (
	Email Channel = "email"
	SMS   Channel = "sms"
	Push  Channel = "push"
)

// All returns every known channel in a stable order.
func All() []Channel {
	return []Channel{Email, SMS, Push}
}

// Message is the rendered, channel-ready content for one notification.
type Message struct {
	Subject string
	Body    string
}

// Recipient carries the contact details needed to reach one user.
// Fields not relevant to a given channel may be empty; the sender for
// that channel validates what it needs.
type Recipient struct {
	UserID      string
	Email       string
	Phone       string
	DeviceToken string
	Locale      string
}

// Sender is the interface all channel senders implement.
type Sender interface {
	// Channel returns the channel this sender handles.
	Channel() Channel

	// Send delivers a rendered message to the recipient over this channel.
	Send(ctx context.Context, msg Message, rcpt Recipient) error
}

// Registry manages channel senders.
type Registry struct {
	senders map[Channel]Sender
}

// NewRegistry creates an empty sender registry.
func NewRegistry() *Registry {
	return &Registry{
		senders: make(map[Channel]Sender),
	}
}

// Register registers a sender for its channel, replacing any previous one.
func (r *Registry) Register(s Sender) {
	r.senders[s.Channel()] = s
}

// Get retrieves the sender for a channel.
func (r *Registry) Get(ch Channel) (Sender, bool) {
	s, ok := r.senders[ch]
	return s, ok
}

// List returns all registered channels.
func (r *Registry) List() []Channel {
	channels := make([]Channel, 0, len(r.senders))
	for ch := range r.senders {
		channels = append(channels, ch)
	}
	return channels
}
