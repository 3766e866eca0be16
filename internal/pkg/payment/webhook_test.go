package payment

import (
	"strings"
	"testing"
)

func TestIsActionableEvent(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "PAYMENT_CONFIRMED", want: true},
		{in: "PAYMENT_RECEIVED", want: true},
		{in: " payment_confirmed ", want: true},
		{in: "PAYMENT_OVERDUE", want: false},
		{in: "PAYMENT_REFUNDED", want: false},
		{in: "SUBSCRIPTION_CREATED", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		if got := IsActionableEvent(tt.in); got != tt.want {
			t.Fatalf("IsActionableEvent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	raw := []byte(`{
		"event": "PAYMENT_CONFIRMED",
		"payment": {
			"id": "pay_123",
			"customerEmail": "maria@example.com",
			"value": 49.90
		}
	}`)

	ev, err := ParseEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Type != "PAYMENT_CONFIRMED" {
		t.Fatalf("unexpected event type %q", ev.Type)
	}
	if ev.CustomerEmail != "maria@example.com" {
		t.Fatalf("unexpected customer email %q", ev.CustomerEmail)
	}
	if ev.PaymentID != "pay_123" {
		t.Fatalf("unexpected payment id %q", ev.PaymentID)
	}
}

func TestParseEventMissingEvent(t *testing.T) {
	if _, err := ParseEvent([]byte(`{"payment":{"customerEmail":"a@b.com"}}`)); err == nil {
		t.Fatalf("expected error for payload without event type")
	}
	if _, err := ParseEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestParseEventMissingEmail(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"event":"PAYMENT_CONFIRMED","payment":{}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.CustomerEmail != "" {
		t.Fatalf("expected empty customer email, got %q", ev.CustomerEmail)
	}
}

func TestVerifyWebhookToken(t *testing.T) {
	if !VerifyWebhookToken("segredo-compartilhado", "segredo-compartilhado") {
		t.Fatalf("expected matching tokens to verify")
	}
	if VerifyWebhookToken("segredo-errado", "segredo-compartilhado") {
		t.Fatalf("expected mismatched tokens to fail")
	}
	if VerifyWebhookToken("", "segredo-compartilhado") {
		t.Fatalf("expected empty received token to fail")
	}
	if VerifyWebhookToken("segredo-compartilhado", "") {
		t.Fatalf("expected empty configured token to fail")
	}
}

func TestEventID(t *testing.T) {
	if got := EventID(" evt_42 ", []byte(`{}`)); got != "evt_42" {
		t.Fatalf("expected header id to win, got %q", got)
	}

	hashed := EventID("", []byte(`{"event":"PAYMENT_CONFIRMED"}`))
	if !strings.HasPrefix(hashed, "hash:") {
		t.Fatalf("expected hash fallback, got %q", hashed)
	}
	if again := EventID("", []byte(`{"event":"PAYMENT_CONFIRMED"}`)); again != hashed {
		t.Fatalf("expected hash fallback to be stable")
	}
}
