package repository

import (
	"github.com/acessoclub/acessoclub/app/models"
	"gorm.io/gorm"
)

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository instance
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) EntitlementTotals() (*EntitlementTotals, error) {
	var totals EntitlementTotals

	if err := r.db.Model(&models.User{}).Count(&totals.Users).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Entitlement{}).
		Where("trial_active = ?", true).
		Count(&totals.ActiveTrials).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Entitlement{}).
		Where("subscription_active = ?", true).
		Count(&totals.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Entitlement{}).
		Where("access_authorized = ?", true).
		Count(&totals.AccessAuthorized).Error; err != nil {
		return nil, err
	}

	return &totals, nil
}
