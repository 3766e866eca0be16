package models

import (
	"time"
)

// Entitlement holds the access flags for one user. Exactly one row exists
// per user for the lifetime of the account; it is created empty at signup
// and destroyed only by the cascading account delete.
//
// TrialExpiresAt is monotonic: absent until a trial is granted, then set
// once and never cleared. Its presence alone means "a trial was issued at
// some point", independent of TrialActive.
type Entitlement struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User               User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TrialActive        bool       `gorm:"default:false" json:"trial_active"`
	TrialExpiresAt     *time.Time `gorm:"type:timestamp;default:null" json:"trial_expires_at,omitempty"`
	SubscriptionActive bool       `gorm:"default:false" json:"subscription_active"`
	AccessAuthorized   bool       `gorm:"default:false;index" json:"access_authorized"`
	ContractAccepted   bool       `gorm:"default:false" json:"contract_accepted"`
	PricingAccepted    bool       `gorm:"default:false" json:"pricing_accepted"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TrialEverIssued reports whether this account has ever received a trial,
// including trials that have since lapsed.
func (e *Entitlement) TrialEverIssued() bool {
	return e.TrialExpiresAt != nil
}

// HasAccess derives the authorization gate from the two grant flags.
// AccessAuthorized must always equal this at rest; writers set it
// atomically with whichever flag they change.
func (e *Entitlement) HasAccess() bool {
	return e.TrialActive || e.SubscriptionActive
}
