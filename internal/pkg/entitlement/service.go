package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"gorm.io/gorm"
)

const (
	// TrialDuration is how long a granted trial stays active.
	TrialDuration = 30 * 24 * time.Hour
	// SignupWindow is the maximum account age at which a trial may still be
	// activated. The activation endpoint is reachable by any authenticated
	// user; restricting it to freshly created accounts closes the re-arming
	// abuse path for accounts that predate the one-shot marker.
	SignupWindow = 5 * time.Minute
)

// Deny reasons returned to the activation endpoint. Client UIs branch on
// these strings, so they are part of the contract.
const (
	ReasonAlreadySubscribed = "already subscribed"
	ReasonTrialActive       = "trial already active"
	ReasonTrialUsed         = "trial already used"
	ReasonAccountTooOld     = "account too old"
)

var ErrUserNotFound = errors.New("user not found")

// TrialDecision is the outcome of a trial activation attempt. A denied
// activation is a no-op signal, not an error.
type TrialDecision struct {
	Granted   bool
	Reason    string
	ExpiresAt *time.Time
}

// Service decides and persists entitlement state transitions.
type Service struct {
	repo Repository
}

// NewService creates an entitlement service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates an entitlement service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// ActivateTrial grants the first-and-only trial for a user. Guards are
// evaluated in order and each denial is terminal; the final write re-checks
// the one-shot guard inside a conditional update so concurrent activations
// cannot double-grant.
func (s *Service) ActivateTrial(ctx context.Context, userID uint, now time.Time) (*TrialDecision, error) {
	_ = ctx
	if userID == 0 {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ent, err := s.repo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if reason := denyReason(ent); reason != "" {
		return &TrialDecision{Granted: false, Reason: reason}, nil
	}

	if now.Sub(user.CreatedAt) > SignupWindow {
		return &TrialDecision{Granted: false, Reason: ReasonAccountTooOld}, nil
	}

	expiresAt := now.Add(TrialDuration)
	granted, err := s.repo.GrantTrial(userID, expiresAt, now)
	if err != nil {
		return nil, err
	}
	if !granted {
		// Lost a race: another request claimed the trial or a payment landed
		// between the guard reads and the write. Re-derive the reason from
		// current state.
		current, err := s.repo.GetByUserID(userID)
		if err != nil {
			return nil, err
		}
		reason := denyReason(current)
		if reason == "" {
			reason = ReasonTrialUsed
		}
		return &TrialDecision{Granted: false, Reason: reason}, nil
	}

	return &TrialDecision{Granted: true, ExpiresAt: &expiresAt}, nil
}

// PromotePaid idempotently promotes the account owning the given payer email
// to paid entitlement. Every write sets absolute values, so any number of
// redeliveries ends in the same state. Returns the resolved user so callers
// can run side effects against it.
func (s *Service) PromotePaid(ctx context.Context, email string, now time.Time) (*models.User, error) {
	_ = ctx
	if models.NormalizeEmail(email) == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetOrCreateByUserID(user.ID); err != nil {
		return nil, err
	}
	if err := s.repo.PromotePaid(user.ID, now); err != nil {
		return nil, err
	}
	return user, nil
}

// denyReason maps current entitlement state to the matching terminal deny
// reason, or "" when the trial may proceed. Order follows the guard order of
// the activation contract.
func denyReason(ent *models.Entitlement) string {
	switch {
	case ent.SubscriptionActive:
		return ReasonAlreadySubscribed
	case ent.TrialActive:
		return ReasonTrialActive
	case ent.TrialEverIssued():
		return ReasonTrialUsed
	default:
		return ""
	}
}
