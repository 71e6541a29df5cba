package channel

import (
	"context"
	"testing"
)

type stubSender struct {
	ch Channel
}

func (s stubSender) Channel() Channel { return s.ch }

func (s stubSender) Send(ctx context.Context, msg Message, rcpt Recipient) error { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(Email); ok {
		t.Error("empty registry returned a sender")
	}

	r.Register(stubSender{ch: Email})
	r.Register(stubSender{ch: SMS})

	s, ok := r.Get(Email)
	if !ok || s.Channel() != Email {
		t.Errorf("Get(email) = %v, %v", s, ok)
	}
	if _, ok := r.Get(Push); ok {
		t.Error("Get(push) returned an unregistered sender")
	}
	if got := len(r.List()); got != 2 {
		t.Errorf("List() has %d channels, want 2", got)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	first := stubSender{ch: Email}
	second := stubSender{ch: Email}
	r.Register(first)
	r.Register(second)

	if got := len(r.List()); got != 1 {
		t.Errorf("List() has %d channels, want 1", got)
	}
}
