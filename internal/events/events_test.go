package events

import "testing"

func TestDecode(t *testing.T) {
	env, err := Decode("booking.created", []byte(`{"eventType":"booking.created","payload":{"bookingId":"B1"}}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if env.EventType != BookingCreated {
		t.Errorf("EventType = %q, want %q", env.EventType, BookingCreated)
	}
	if id, ok := env.String("bookingId"); !ok || id != "B1" {
		t.Errorf("bookingId = %q, %v", id, ok)
	}
}

func TestDecode_TopicFallback(t *testing.T) {
	env, err := Decode("payment.completed", []byte(`{"payload":{"paymentId":"P1"}}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if env.EventType != PaymentCompleted {
		t.Errorf("EventType = %q, want topic fallback %q", env.EventType, PaymentCompleted)
	}
}

func TestDecode_MissingPayload(t *testing.T) {
	env, err := Decode("user.registered", []byte(`{"eventType":"user.registered"}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if env.Payload == nil {
		t.Fatal("Payload not initialized")
	}
	if _, ok := env.String("userId"); ok {
		t.Error("missing field reported as present")
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode("user.registered", []byte(`not json`)); err == nil {
		t.Error("Decode() accepted malformed input")
	}
}

func TestEnvelopeString(t *testing.T) {
	env := &Envelope{Payload: map[string]any{
		"name":   "Linh",
		"empty":  "",
		"id":     float64(42),
		"amount": 19.5,
		"flag":   true,
		"null":   nil,
	}}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"name", "Linh", true},
		{"empty", "", false},
		{"id", "42", true},
		{"amount", "19.5", true},
		{"flag", "true", true},
		{"null", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := env.String(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("String(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStringOr(t *testing.T) {
	env := &Envelope{Payload: map[string]any{"reason": ""}}
	if got := env.StringOr("reason", "No reason provided"); got != "No reason provided" {
		t.Errorf("StringOr() = %q", got)
	}
	env.Payload["reason"] = "double booking"
	if got := env.StringOr("reason", "No reason provided"); got != "double booking" {
		t.Errorf("StringOr() = %q", got)
	}
}

func TestTypeCategory(t *testing.T) {
	tests := []struct {
		typ  Type
		want Category
	}{
		{UserRegistered, CategoryAccount},
		{KYCRejected, CategoryAccount},
		{BookingCancelled, CategoryBooking},
		{PaymentFailed, CategoryPayment},
		{InvoiceGenerated, CategoryPayment},
		{DisputeMessageAdded, CategoryDispute},
		{Type("vehicle.unknown"), CategoryAccount},
	}
	for _, tt := range tests {
		if got := tt.typ.Category(); got != tt.want {
			t.Errorf("%s.Category() = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestConsumedCoversCategoryMap(t *testing.T) {
	consumed := Consumed()
	if len(consumed) != len(categories) {
		t.Fatalf("Consumed() has %d types, category map has %d", len(consumed), len(categories))
	}
	for _, typ := range consumed {
		if _, ok := categories[typ]; !ok {
			t.Errorf("consumed type %s has no category", typ)
		}
	}
}
