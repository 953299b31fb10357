// Package userrepo reads users for background jobs.
package userrepo

import (
	"context"

	"gorm.io/gorm"
)

// Role values stored in users.role.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// UserDTO is a row of the users table. Authentication columns live with the
// identity service and are not mapped here.
type UserDTO struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Email string `gorm:"type:text;not null;uniqueIndex"`
	Role  string `gorm:"type:text;not null;index;default:customer"`
}

func (UserDTO) TableName() string {
	return "users"
}

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// ListCustomers returns customer ids in ascending order.
func (r *GormUserRepository) ListCustomers(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("role = ?", RoleCustomer).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Add stores a user and returns its id.
func (r *GormUserRepository) Add(ctx context.Context, email, role string) (int64, error) {
	dto := UserDTO{Email: email, Role: role}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return 0, err
	}
	return dto.ID, nil
}
