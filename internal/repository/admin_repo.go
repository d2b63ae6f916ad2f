package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// AdminRepository is data access for admin profiles.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByUserID(ctx context.Context, userID string) (*model.Admin, error)
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo creates an AdminRepository.
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepo) GetByUserID(ctx context.Context, userID string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
