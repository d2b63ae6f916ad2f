package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// newUser hashes the password and inserts a user row.
func newUser(ctx context.Context, repo *repository.Repository, first, last, email, password, role string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FirstName:    strings.TrimSpace(first),
		LastName:     strings.TrimSpace(last),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func checkEmailFree(ctx context.Context, repo *repository.Repository, email, excludeUserID string) error {
	taken, err := repo.User.EmailTaken(ctx, strings.TrimSpace(email), excludeUserID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func checkDepartment(ctx context.Context, repo *repository.Repository, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := repo.Department.GetByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}

// applyNames copies non-nil name and email edits onto user.
func applyNames(user *model.User, first, last, email *string) {
	if user == nil {
		return
	}
	if first != nil {
		user.FirstName = strings.TrimSpace(*first)
	}
	if last != nil {
		user.LastName = strings.TrimSpace(*last)
	}
	if email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*email))
	}
}
