package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/template"
)

// fakeSender records sends and fails when told to.
type fakeSender struct {
	ch      channel.Channel
	sendErr error
	calls   int
	lastMsg channel.Message
}

func (f *fakeSender) Channel() channel.Channel { return f.ch }

func (f *fakeSender) Send(ctx context.Context, msg channel.Message, rcpt channel.Recipient) error {
	f.calls++
	f.lastMsg = msg
	return f.sendErr
}

// fakeRenderer renders a fixed message or fails. It supports every
// channel unless told otherwise.
type fakeRenderer struct {
	err         error
	vars        map[string]string
	unsupported map[channel.Channel]bool
}

func (f *fakeRenderer) Render(key string, ch channel.Channel, vars map[string]string) (channel.Message, error) {
	f.vars = vars
	if f.err != nil {
		return channel.Message{}, f.err
	}
	return channel.Message{Subject: "subject " + key, Body: "body"}, nil
}

func (f *fakeRenderer) Supports(key string, ch channel.Channel) bool {
	return !f.unsupported[ch]
}

// fakeDirectory returns a fixed recipient or fails.
type fakeDirectory struct {
	rcpt *channel.Recipient
	err  error
}

func (f *fakeDirectory) GetRecipient(ctx context.Context, userID string) (*channel.Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rcpt, nil
}

// fakeStatus records every published result.
type fakeStatus struct {
	results []*DeliveryResult
}

func (f *fakeStatus) PublishResult(ctx context.Context, res *DeliveryResult) {
	f.results = append(f.results, res)
}

// fakeDeduper claims or rejects every key.
type fakeDeduper struct {
	claimed bool
	err     error
	keys    []string
}

func (f *fakeDeduper) ClaimDispatch(ctx context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.claimed, f.err
}

func newTestDispatcher(senders []*fakeSender, dir *fakeDirectory, st *fakeStatus, dd Deduper) *Dispatcher {
	registry := channel.NewRegistry()
	for _, s := range senders {
		registry.Register(s)
	}
	d := NewDispatcher(registry, &fakeRenderer{}, dir, st, dd, nil)
	d.retryCfg.MaxRetries = 0
	return d
}

func testRecipient() *fakeDirectory {
	return &fakeDirectory{rcpt: &channel.Recipient{
		UserID: "u1",
		Email:  "u1@example.com",
		Phone:  "+84900000001",
		Locale: "vi-VN",
	}}
}

func testIntent() *Intent {
	return &Intent{
		TemplateKey: "booking_confirmed",
		UserID:      "u1",
		Category:    events.CategoryBooking,
		Variables:   map[string]string{"user_name": "Minh"},
	}
}

func TestDispatch_AllChannelsSucceed(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	push := &fakeSender{ch: channel.Push}
	st := &fakeStatus{}
	d := newTestDispatcher([]*fakeSender{email, push}, testRecipient(), st, nil)

	res := d.Dispatch(context.Background(), testIntent(), []channel.Channel{channel.Email, channel.Push})

	if res.Status != StatusSent {
		t.Errorf("Status = %s, want %s", res.Status, StatusSent)
	}
	if len(res.ChannelsSucceeded) != 2 {
		t.Errorf("ChannelsSucceeded = %v, want both", res.ChannelsSucceeded)
	}
	if email.calls != 1 || push.calls != 1 {
		t.Errorf("sender calls = (%d, %d), want (1, 1)", email.calls, push.calls)
	}
	if len(st.results) != 1 {
		t.Fatalf("status published %d times, want exactly once", len(st.results))
	}
	if res.NotificationID == "" {
		t.Error("NotificationID should be generated")
	}
}

func TestDispatch_PartialFailure(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	sms := &fakeSender{ch: channel.SMS, sendErr: errors.New("gateway rejected")}
	push := &fakeSender{ch: channel.Push}
	st := &fakeStatus{}
	d := newTestDispatcher([]*fakeSender{email, sms, push}, testRecipient(), st, nil)

	res := d.Dispatch(context.Background(), testIntent(), []channel.Channel{channel.Email, channel.SMS, channel.Push})

	if res.Status != StatusPartiallySent {
		t.Errorf("Status = %s, want %s", res.Status, StatusPartiallySent)
	}
	succeeded := map[channel.Channel]bool{}
	for _, ch := range res.ChannelsSucceeded {
		succeeded[ch] = true
	}
	if !succeeded[channel.Email] || !succeeded[channel.Push] || succeeded[channel.SMS] {
		t.Errorf("ChannelsSucceeded = %v, want exactly [email push]", res.ChannelsSucceeded)
	}
	if res.Error == "" {
		t.Error("partial result should carry the failing channel's error")
	}
}

func TestDispatch_AllChannelsFail(t *testing.T) {
	email := &fakeSender{ch: channel.Email, sendErr: errors.New("smtp down")}
	sms := &fakeSender{ch: channel.SMS, sendErr: errors.New("gateway down")}
	st := &fakeStatus{}
	d := newTestDispatcher([]*fakeSender{email, sms}, testRecipient(), st, nil)

	res := d.Dispatch(context.Background(), testIntent(), []channel.Channel{channel.Email, channel.SMS})

	if res.Status != StatusFailed {
		t.Errorf("Status = %s, want %s", res.Status, StatusFailed)
	}
	if len(res.ChannelsSucceeded) != 0 {
		t.Errorf("ChannelsSucceeded = %v, want none", res.ChannelsSucceeded)
	}
	if len(st.results) != 1 {
		t.Fatalf("status published %d times, want exactly once", len(st.results))
	}
}

func TestDispatch_EmptyChannelSetIsSuppressed(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	st := &fakeStatus{}
	d := newTestDispatcher([]*fakeSender{email}, testRecipient(), st, nil)

	res := d.Dispatch(context.Background(), testIntent(), nil)

	if res.Status != StatusSuppressed {
		t.Errorf("Status = %s, want %s", res.Status, StatusSuppressed)
	}
	if email.calls != 0 {
		t.Errorf("suppressed dispatch should not call senders, got %d calls", email.calls)
	}
	if len(st.results) != 1 || st.results[0].Status != StatusSuppressed {
		t.Errorf("suppressed result should still reach the status publisher once")
	}
}

func TestDispatch_RecipientLookupFails(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	st := &fakeStatus{}
	dir := &fakeDirectory{err: errors.New("recipient not found: u1")}
	d := newTestDispatcher([]*fakeSender{email}, dir, st, nil)

	res := d.Dispatch(context.Background(), testIntent(), []channel.Channel{channel.Email})

	if res.Status != StatusFailed {
		t.Errorf("Status = %s, want %s", res.Status, StatusFailed)
	}
	if email.calls != 0 {
		t.Error("no sends should be attempted without a recipient")
	}
}

func TestDispatch_DuplicateIsSkipped(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	st := &fakeStatus{}
	dd := &fakeDeduper{claimed: false}
	d := newTestDispatcher([]*fakeSender{email}, testRecipient(), st, dd)

	intent := testIntent()
	intent.DedupeKey = "booking.confirmed:B1"
	res := d.Dispatch(context.Background(), intent, []channel.Channel{channel.Email})

	if res != nil {
		t.Errorf("duplicate dispatch should return nil, got %+v", res)
	}
	if email.calls != 0 {
		t.Error("duplicate dispatch should not send")
	}
	if len(st.results) != 0 {
		t.Error("duplicate dispatch should not publish")
	}
	if len(dd.keys) != 1 || dd.keys[0] != "booking.confirmed:B1" {
		t.Errorf("dedupe keys = %v", dd.keys)
	}
}

func TestDispatch_DedupeErrorStillSends(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	st := &fakeStatus{}
	dd := &fakeDeduper{err: errors.New("redis down")}
	d := newTestDispatcher([]*fakeSender{email}, testRecipient(), st, dd)

	intent := testIntent()
	intent.DedupeKey = "k"
	res := d.Dispatch(context.Background(), intent, []channel.Channel{channel.Email})

	if res == nil || res.Status != StatusSent {
		t.Fatalf("dedupe error must not block dispatch, got %+v", res)
	}
}

func TestDispatch_TimeVariablesUseRecipientLocale(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	st := &fakeStatus{}
	renderer := &fakeRenderer{}
	registry := channel.NewRegistry()
	registry.Register(email)
	d := NewDispatcher(registry, renderer, testRecipient(), st, nil, nil)
	d.retryCfg.MaxRetries = 0

	intent := testIntent()
	intent.TimeVariables = map[string]string{
		"start_time": "2026-04-05T14:30:00Z",
		"end_time":   "not a date",
	}
	d.Dispatch(context.Background(), intent, []channel.Channel{channel.Email})

	// Recipient locale is vi-VN: day-first layout and Vietnamese
	// placeholder for the unparsable value.
	if got := renderer.vars["start_time"]; got != "14:30 05/04/2026" {
		t.Errorf("start_time = %q", got)
	}
	if got := renderer.vars["end_time"]; got != "không có" {
		t.Errorf("end_time = %q", got)
	}
}

func TestDispatch_MissingTemplateVariantNotAttempted(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	sms := &fakeSender{ch: channel.SMS}
	push := &fakeSender{ch: channel.Push}
	st := &fakeStatus{}
	registry := channel.NewRegistry()
	registry.Register(email)
	registry.Register(sms)
	registry.Register(push)
	d := NewDispatcher(registry, template.NewRegistry(), testRecipient(), st, nil, nil)
	d.retryCfg.MaxRetries = 0

	// welcome_email ships email and push variants only. With all three
	// channels enabled the sms absence must not degrade the outcome.
	intent := testIntent()
	intent.TemplateKey = "welcome_email"
	res := d.Dispatch(context.Background(), intent, []channel.Channel{channel.Email, channel.SMS, channel.Push})

	if res.Status != StatusSent {
		t.Errorf("Status = %s, want %s (error: %q)", res.Status, StatusSent, res.Error)
	}
	if sms.calls != 0 {
		t.Errorf("sms sender called %d times for a key with no sms variant", sms.calls)
	}
	if email.calls != 1 || push.calls != 1 {
		t.Errorf("sender calls = (%d, %d), want (1, 1)", email.calls, push.calls)
	}
	attempted := map[channel.Channel]bool{}
	for _, ch := range res.ChannelsAttempted {
		attempted[ch] = true
	}
	if !attempted[channel.Email] || !attempted[channel.Push] || attempted[channel.SMS] {
		t.Errorf("ChannelsAttempted = %v, want exactly [email push]", res.ChannelsAttempted)
	}
	if res.Error != "" {
		t.Errorf("Error = %q, want empty", res.Error)
	}
}

func TestDispatch_NoApplicableChannelIsSuppressed(t *testing.T) {
	sms := &fakeSender{ch: channel.SMS}
	st := &fakeStatus{}
	registry := channel.NewRegistry()
	registry.Register(sms)
	d := NewDispatcher(registry, template.NewRegistry(), testRecipient(), st, nil, nil)
	d.retryCfg.MaxRetries = 0

	// dispute_message has no sms variant, and sms is the only channel
	// the user has enabled.
	intent := testIntent()
	intent.TemplateKey = "dispute_message"
	res := d.Dispatch(context.Background(), intent, []channel.Channel{channel.SMS})

	if res.Status != StatusSuppressed {
		t.Errorf("Status = %s, want %s", res.Status, StatusSuppressed)
	}
	if sms.calls != 0 {
		t.Error("no sends should be attempted without an applicable template")
	}
}

func TestDispatch_RenderFailureCountsAsChannelFailure(t *testing.T) {
	email := &fakeSender{ch: channel.Email}
	push := &fakeSender{ch: channel.Push}
	st := &fakeStatus{}
	registry := channel.NewRegistry()
	registry.Register(email)
	registry.Register(push)
	d := NewDispatcher(registry, &fakeRenderer{err: fmt.Errorf("unknown template key")}, testRecipient(), st, nil, nil)
	d.retryCfg.MaxRetries = 0

	res := d.Dispatch(context.Background(), testIntent(), []channel.Channel{channel.Email, channel.Push})

	if res.Status != StatusFailed {
		t.Errorf("Status = %s, want %s", res.Status, StatusFailed)
	}
	if email.calls != 0 || push.calls != 0 {
		t.Error("render failure should prevent the send call")
	}
}
