package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	users        map[uint]*models.User
	entitlements map[uint]*models.Entitlement
	denyGrant    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        make(map[uint]*models.User),
		entitlements: make(map[uint]*models.Entitlement),
	}
}

func (f *fakeRepo) addUser(id uint, email string, createdAt time.Time) {
	f.users[id] = &models.User{ID: id, Name: "Usuario Teste", Email: models.NormalizeEmail(email), CreatedAt: createdAt}
	f.entitlements[id] = &models.Entitlement{UserID: id}
}

func (f *fakeRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindUserByEmail(email string) (*models.User, error) {
	norm := models.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == norm {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetOrCreateByUserID(userID uint) (*models.Entitlement, error) {
	if e, ok := f.entitlements[userID]; ok {
		copy := *e
		return &copy, nil
	}
	f.entitlements[userID] = &models.Entitlement{UserID: userID}
	copy := *f.entitlements[userID]
	return &copy, nil
}

func (f *fakeRepo) GetByUserID(userID uint) (*models.Entitlement, error) {
	if e, ok := f.entitlements[userID]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GrantTrial(userID uint, expiresAt, now time.Time) (bool, error) {
	e, ok := f.entitlements[userID]
	if !ok || f.denyGrant {
		return false, nil
	}
	// Mirrors the conditional UPDATE: one-shot and subscription guards are
	// re-checked atomically with the write.
	if e.TrialExpiresAt != nil || e.SubscriptionActive {
		return false, nil
	}
	e.TrialActive = true
	e.TrialExpiresAt = &expiresAt
	e.AccessAuthorized = true
	e.UpdatedAt = now
	return true, nil
}

func (f *fakeRepo) PromotePaid(userID uint, now time.Time) error {
	e, ok := f.entitlements[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.SubscriptionActive = true
	e.AccessAuthorized = true
	e.ContractAccepted = true
	e.PricingAccepted = true
	e.UpdatedAt = now
	return nil
}

func TestActivateTrialGrantsOnce(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(1, "maria@example.com", now.Add(-time.Minute))
	svc := NewService(repo)

	first, err := svc.ActivateTrial(context.Background(), 1, now)
	require.NoError(t, err)
	assert.True(t, first.Granted)
	require.NotNil(t, first.ExpiresAt)
	assert.Equal(t, now.Add(TrialDuration), *first.ExpiresAt)

	ent := repo.entitlements[1]
	assert.True(t, ent.TrialActive)
	assert.True(t, ent.AccessAuthorized)
	assert.False(t, ent.SubscriptionActive)

	second, err := svc.ActivateTrial(context.Background(), 1, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, second.Granted)
	assert.Equal(t, ReasonTrialActive, second.Reason)
	assert.Nil(t, second.ExpiresAt)
}

func TestActivateTrialLapsedTrialStaysUsed(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(1, "maria@example.com", now.Add(-time.Minute))
	expired := now.Add(-24 * time.Hour)
	repo.entitlements[1].TrialExpiresAt = &expired
	repo.entitlements[1].TrialActive = false
	svc := NewService(repo)

	decision, err := svc.ActivateTrial(context.Background(), 1, now)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonTrialUsed, decision.Reason)
}

func TestActivateTrialAlreadySubscribed(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(1, "maria@example.com", now.Add(-time.Minute))
	repo.entitlements[1].SubscriptionActive = true
	repo.entitlements[1].AccessAuthorized = true
	svc := NewService(repo)

	decision, err := svc.ActivateTrial(context.Background(), 1, now)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonAlreadySubscribed, decision.Reason)
}

func TestActivateTrialAccountTooOld(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(1, "maria@example.com", now.Add(-10*time.Minute))
	svc := NewService(repo)

	decision, err := svc.ActivateTrial(context.Background(), 1, now)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonAccountTooOld, decision.Reason)

	// No side effect on the denied path.
	assert.False(t, repo.entitlements[1].TrialActive)
	assert.Nil(t, repo.entitlements[1].TrialExpiresAt)
}

func TestActivateTrialUnknownUser(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ActivateTrial(context.Background(), 42, time.Now())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestActivateTrialRaceLoserGetsReason(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(1, "maria@example.com", now.Add(-time.Minute))
	// Simulate the conditional update losing: by the time this request
	// writes, a concurrent one already claimed the trial.
	repo.denyGrant = true
	won := now.Add(TrialDuration)
	repo.entitlements[1].TrialActive = true
	repo.entitlements[1].TrialExpiresAt = &won
	repo.entitlements[1].AccessAuthorized = true
	svc := NewService(repo)

	decision, err := svc.ActivateTrial(context.Background(), 1, now)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonTrialActive, decision.Reason)
}

func TestPromotePaidIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(7, "joao@example.com", now.Add(-time.Hour))
	svc := NewService(repo)

	for i := 0; i < 3; i++ {
		user, err := svc.PromotePaid(context.Background(), "Joao@Example.COM", now)
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
	}

	ent := repo.entitlements[7]
	assert.True(t, ent.SubscriptionActive)
	assert.True(t, ent.AccessAuthorized)
	assert.True(t, ent.ContractAccepted)
	assert.True(t, ent.PricingAccepted)
	assert.False(t, ent.TrialActive)
	assert.Nil(t, ent.TrialExpiresAt)
}

func TestPromotePaidKeepsTrialHistory(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.addUser(7, "joao@example.com", now.Add(-time.Hour))
	issued := now.Add(-time.Hour)
	repo.entitlements[7].TrialActive = true
	repo.entitlements[7].TrialExpiresAt = &issued
	svc := NewService(repo)

	_, err := svc.PromotePaid(context.Background(), "joao@example.com", now)
	require.NoError(t, err)

	// Subscription takes precedence but trial state is not forcibly cleared.
	ent := repo.entitlements[7]
	assert.True(t, ent.SubscriptionActive)
	assert.True(t, ent.TrialActive)
	assert.NotNil(t, ent.TrialExpiresAt)
}

func TestPromotePaidUnknownEmail(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.PromotePaid(context.Background(), "ninguem@example.com", time.Now())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.PromotePaid(context.Background(), "  ", time.Now())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
