package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// AdminService covers admin accounts.
type AdminService interface {
	// CreateAdmin bootstraps an admin account.
	CreateAdmin(ctx context.Context, first, last, email, password string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateAdminProfileRequest) (*dto.UserResponse, error)
	ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) CreateAdmin(ctx context.Context, first, last, email, password string) (*dto.UserResponse, error) {
	if err := checkEmailFree(ctx, s.repo, email, ""); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		user, err = newUser(ctx, tx, first, last, email, password, model.RoleAdmin)
		if err != nil {
			return err
		}
		return tx.Admin.Create(ctx, &model.Admin{UserID: user.UserID})
	})
	if err != nil {
		s.logger.Error("create admin failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("admin created", zap.String("user_id", user.UserID))
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *adminService) UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateAdminProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	applyNames(user, &req.FirstName, &req.LastName, nil)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update admin profile failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *adminService) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}
