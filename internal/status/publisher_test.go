package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/bus"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/dispatch"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// fakeBus records publishes and reports a configurable state.
type fakeBus struct {
	state    bus.State
	err      error
	topics   []string
	payloads []any
}

func (f *fakeBus) State() bus.State { return f.state }

func (f *fakeBus) Publish(ctx context.Context, topic, key string, payload any) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func sentResult(status dispatch.Status) *dispatch.DeliveryResult {
	return &dispatch.DeliveryResult{
		NotificationID:    "n1",
		UserID:            "u1",
		Type:              "booking_confirmed",
		ChannelsAttempted: []channel.Channel{channel.Email, channel.SMS},
		ChannelsSucceeded: []channel.Channel{channel.Email},
		Status:            status,
		CompletedAt:       time.Now().UTC(),
	}
}

func TestPublishResult_Sent(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected}
	p := NewPublisher(b)

	p.PublishResult(context.Background(), sentResult(dispatch.StatusSent))

	if len(b.topics) != 1 || b.topics[0] != events.TopicNotificationSent {
		t.Fatalf("topics = %v, want [%s]", b.topics, events.TopicNotificationSent)
	}
	payload, ok := b.payloads[0].(events.NotificationSent)
	if !ok {
		t.Fatalf("payload type = %T", b.payloads[0])
	}
	if payload.NotificationID != "n1" || payload.Status != "sent" {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.Channels) != 1 || payload.Channels[0] != "email" {
		t.Errorf("Channels = %v, want succeeded channels only", payload.Channels)
	}
}

func TestPublishResult_PartiallySentGoesToSentTopic(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected}
	p := NewPublisher(b)

	p.PublishResult(context.Background(), sentResult(dispatch.StatusPartiallySent))

	if len(b.topics) != 1 || b.topics[0] != events.TopicNotificationSent {
		t.Fatalf("topics = %v, want [%s]", b.topics, events.TopicNotificationSent)
	}
}

func TestPublishResult_Failed(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected}
	p := NewPublisher(b)

	res := sentResult(dispatch.StatusFailed)
	res.ChannelsSucceeded = nil
	res.Error = "all sends failed"
	p.PublishResult(context.Background(), res)

	if len(b.topics) != 1 || b.topics[0] != events.TopicNotificationFailed {
		t.Fatalf("topics = %v, want [%s]", b.topics, events.TopicNotificationFailed)
	}
	payload := b.payloads[0].(events.NotificationFailed)
	if payload.Error != "all sends failed" {
		t.Errorf("payload = %+v", payload)
	}
	if len(payload.Channels) != 2 {
		t.Errorf("failed payload should carry attempted channels, got %v", payload.Channels)
	}
}

func TestPublishResult_SuppressedPublishesNothing(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected}
	p := NewPublisher(b)

	p.PublishResult(context.Background(), sentResult(dispatch.StatusSuppressed))

	if len(b.topics) != 0 {
		t.Errorf("suppressed result published to %v, want nothing", b.topics)
	}
}

func TestPublishResult_NotConnectedIsNoOp(t *testing.T) {
	for _, state := range []bus.State{bus.StateDisconnected, bus.StateConnecting, bus.StateFailed} {
		b := &fakeBus{state: state}
		p := NewPublisher(b)

		p.PublishResult(context.Background(), sentResult(dispatch.StatusSent))

		if len(b.topics) != 0 {
			t.Errorf("state %s: published %v, want nothing", state, b.topics)
		}
	}
}

func TestPublishResult_PublishErrorIsSwallowed(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected, err: errors.New("broker rejected")}
	p := NewPublisher(b)

	// Must not panic or propagate.
	p.PublishResult(context.Background(), sentResult(dispatch.StatusSent))
}

func TestPublishResult_NilResult(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected}
	p := NewPublisher(b)

	p.PublishResult(context.Background(), nil)

	if len(b.topics) != 0 {
		t.Errorf("nil result published to %v", b.topics)
	}
}

func TestPublishProviderStatus(t *testing.T) {
	b := &fakeBus{state: bus.StateConnected}
	p := NewPublisher(b)

	p.PublishProviderStatus(context.Background(), "resend", "down")

	if len(b.topics) != 1 || b.topics[0] != events.TopicProviderStatus {
		t.Fatalf("topics = %v", b.topics)
	}
	payload := b.payloads[0].(events.ProviderStatus)
	if payload.Provider != "resend" || payload.Status != "down" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestPublishProviderStatus_NotConnected(t *testing.T) {
	b := &fakeBus{state: bus.StateFailed}
	p := NewPublisher(b)

	p.PublishProviderStatus(context.Background(), "resend", "down")

	if len(b.topics) != 0 {
		t.Errorf("published %v while disconnected", b.topics)
	}
}
