package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// Gateway event types that promote an account. Everything else is
// acknowledged and ignored so the gateway stops retrying it.
const (
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventPaymentReceived  = "PAYMENT_RECEIVED"
)

// Event is the normalized shape of an inbound gateway notification.
type Event struct {
	Type          string
	CustomerEmail string
	PaymentID     string
}

// IsActionableEvent reports whether the event type is on the payment
// confirmation allow-list.
func IsActionableEvent(eventType string) bool {
	switch strings.ToUpper(strings.TrimSpace(eventType)) {
	case EventPaymentConfirmed, EventPaymentReceived:
		return true
	default:
		return false
	}
}

// ParseEvent decodes a gateway webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	type rawPayload struct {
		Event   string `json:"event"`
		Payment struct {
			ID            string `json:"id"`
			CustomerEmail string `json:"customerEmail"`
		} `json:"payment"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, errors.New("webhook payload missing event type")
	}

	return &Event{
		Type:          strings.TrimSpace(raw.Event),
		CustomerEmail: strings.TrimSpace(raw.Payment.CustomerEmail),
		PaymentID:     strings.TrimSpace(raw.Payment.ID),
	}, nil
}

// VerifyWebhookToken compares the received shared-secret header against the
// configured value. Both sides are hashed first so the comparison takes the
// same time regardless of where the inputs diverge.
func VerifyWebhookToken(received, expected string) bool {
	got := strings.TrimSpace(received)
	want := strings.TrimSpace(expected)
	if got == "" || want == "" {
		return false
	}

	gotSum := sha256.Sum256([]byte(got))
	wantSum := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(gotSum[:], wantSum[:]) == 1
}

// EventID returns the gateway-assigned delivery id, falling back to a
// payload hash when the gateway did not send one.
func EventID(headerValue string, payload []byte) string {
	if id := strings.TrimSpace(headerValue); id != "" {
		return id
	}
	sum := sha256.Sum256(payload)
	return "hash:" + hex.EncodeToString(sum[:])
}
