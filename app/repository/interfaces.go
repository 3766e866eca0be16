package repository

import (
	"github.com/acessoclub/acessoclub/app/models"
)

// UserRepository defines the interface for identity-related database operations
type UserRepository interface {
	CreateWithEntitlement(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// EntitlementTotals aggregates entitlement state for the operator dashboard.
type EntitlementTotals struct {
	Users               int64 `json:"users"`
	ActiveTrials        int64 `json:"active_trials"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
	AccessAuthorized    int64 `json:"access_authorized"`
}

// StatsRepository defines aggregate queries used by operator endpoints
type StatsRepository interface {
	EntitlementTotals() (*EntitlementTotals, error)
}
