package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/config"
	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	"github.com/Chafic123/Attendance-Backend/pkg/jwt"
)

// AuthService handles login, tokens and the caller's own account.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes the token id until expiresAt.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, actor Actor) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService. tokens may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	if s.tokens != nil {
		revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist lookup failed", zap.Error(err))
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	// rotate: the used refresh token cannot be replayed
	if claims.ExpiresAt != nil {
		if err := s.Logout(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			s.logger.Warn("revoke refresh token failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.tokens == nil || jti == "" {
		return nil
	}
	return s.tokens.BlacklistToken(ctx, jti, expiresAt.Sub(s.now()))
}

func (s *authService) Me(ctx context.Context, actor Actor) (*dto.MeResponse, error) {
	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	resp := &dto.MeResponse{User: toUserResponse(user), ProfileID: actor.ProfileID}
	switch user.Role {
	case model.RoleInstructor:
		inst, err := s.repo.Instructor.GetByUserID(ctx, user.UserID)
		if err != nil {
			return nil, s.profileErr(err)
		}
		resp.ProfileID = inst.InstructorID
		resp.Instructor = toInstructorResponse(inst)
	case model.RoleStudent:
		st, err := s.repo.Student.GetByUserID(ctx, user.UserID)
		if err != nil {
			return nil, s.profileErr(err)
		}
		resp.ProfileID = st.StudentID
		resp.Student = toStudentResponse(st)
	}
	return resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	return s.repo.User.UpdatePassword(ctx, user.UserID, string(hash))
}

// ── helpers ──

func (s *authService) issue(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	profileID, err := s.profileID(ctx, user)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, profileID)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, profileID)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func (s *authService) profileID(ctx context.Context, user *model.User) (string, error) {
	switch user.Role {
	case model.RoleAdmin:
		a, err := s.repo.Admin.GetByUserID(ctx, user.UserID)
		if err != nil {
			return "", s.profileErr(err)
		}
		return a.AdminID, nil
	case model.RoleInstructor:
		i, err := s.repo.Instructor.GetByUserID(ctx, user.UserID)
		if err != nil {
			return "", s.profileErr(err)
		}
		return i.InstructorID, nil
	case model.RoleStudent:
		st, err := s.repo.Student.GetByUserID(ctx, user.UserID)
		if err != nil {
			return "", s.profileErr(err)
		}
		return st.StudentID, nil
	}
	return "", ErrProfileMissing
}

func (s *authService) profileErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileMissing
	}
	s.logger.Error("load profile failed", zap.Error(err))
	return err
}
