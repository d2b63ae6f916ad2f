package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// UserRepository is data access for login identities.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailTaken reports whether another user (not excludeID) owns email.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	// Delete removes the user; the profile row goes with it.
	Delete(ctx context.Context, id string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("LOWER(email) = LOWER(?)", email)
	if excludeID != "" {
		q = q.Where("user_id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
