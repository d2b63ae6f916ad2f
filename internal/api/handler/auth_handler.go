package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// AuthHandler serves login, tokens and the caller's own account.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Logout revokes the current access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, me)
}

// ChangePassword
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), actor, &req); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
