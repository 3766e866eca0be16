package entitlement

import (
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the entitlement service.
type Repository interface {
	GetUserByID(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	GetOrCreateByUserID(userID uint) (*models.Entitlement, error)
	GetByUserID(userID uint) (*models.Entitlement, error)
	GrantTrial(userID uint, expiresAt, now time.Time) (bool, error)
	PromotePaid(userID uint, now time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an entitlement repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(email) = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetOrCreateByUserID(userID uint) (*models.Entitlement, error) {
	ent := &models.Entitlement{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(ent).Error; err != nil {
		return nil, err
	}

	var stored models.Entitlement
	if err := r.db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *gormRepository) GetByUserID(userID uint) (*models.Entitlement, error) {
	var ent models.Entitlement
	if err := r.db.Where("user_id = ?", userID).First(&ent).Error; err != nil {
		return nil, err
	}
	return &ent, nil
}

// GrantTrial performs the one-shot trial write as a single conditional
// update. The WHERE clause re-checks the one-shot and subscription guards
// inside the statement, so two racing activations cannot both win.
func (r *gormRepository) GrantTrial(userID uint, expiresAt, now time.Time) (bool, error) {
	res := r.db.Model(&models.Entitlement{}).
		Where("user_id = ? AND trial_expires_at IS NULL AND subscription_active = ?", userID, false).
		Updates(map[string]interface{}{
			"trial_active":      true,
			"trial_expires_at":  expiresAt,
			"access_authorized": true,
			"updated_at":        now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PromotePaid writes absolute flag values, so redelivered payment events
// commute to the same final state.
func (r *gormRepository) PromotePaid(userID uint, now time.Time) error {
	return r.db.Model(&models.Entitlement{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_active": true,
			"access_authorized":   true,
			"contract_accepted":   true,
			"pricing_accepted":    true,
			"updated_at":          now,
		}).Error
}
