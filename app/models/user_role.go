package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ROLE_ADMIN = "admin"
	ROLE_USER  = "user"
)

// UserRole is a role-assignment relation. Privilege is a capability lookup
// against this table, never a column on users, so operators can be added
// and removed without touching the identity record.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_user_roles_user_role,unique,priority:1;constraint:OnDelete:CASCADE" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role      string    `gorm:"type:varchar(50);not null;index:ux_user_roles_user_role,unique,priority:2;index" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// HasRole reports whether the user holds the given role.
func HasRole(db *gorm.DB, userID uint, role string) (bool, error) {
	var count int64
	err := db.Model(&UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AssignRole grants a role to a user. Re-assigning an existing role is a no-op.
func AssignRole(db *gorm.DB, userID uint, role string) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "role"},
		},
		DoNothing: true,
	}).Create(&UserRole{UserID: userID, Role: role}).Error
}

// RevokeRole removes a role assignment from a user.
func RevokeRole(db *gorm.DB, userID uint, role string) error {
	return db.Where("user_id = ? AND role = ?", userID, role).Delete(&UserRole{}).Error
}

// ListUserIDsWithRole returns the ids of all users holding the given role.
func ListUserIDsWithRole(db *gorm.DB, role string) ([]uint, error) {
	var ids []uint
	err := db.Model(&UserRole{}).
		Where("role = ?", role).
		Pluck("user_id", &ids).Error
	return ids, err
}
