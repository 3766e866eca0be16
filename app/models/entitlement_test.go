package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntitlementTrialEverIssued(t *testing.T) {
	e := &Entitlement{UserID: 1}
	assert.False(t, e.TrialEverIssued())

	expires := time.Now().Add(30 * 24 * time.Hour)
	e.TrialExpiresAt = &expires
	assert.True(t, e.TrialEverIssued())

	// A lapsed trial still counts as issued.
	e.TrialActive = false
	assert.True(t, e.TrialEverIssued())
}

func TestEntitlementHasAccess(t *testing.T) {
	e := &Entitlement{UserID: 1}
	assert.False(t, e.HasAccess())

	e.TrialActive = true
	assert.True(t, e.HasAccess())

	e.TrialActive = false
	e.SubscriptionActive = true
	assert.True(t, e.HasAccess())

	// Subscription takes precedence; an expired trial flag does not matter.
	e.TrialActive = false
	assert.True(t, e.HasAccess())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
