package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// AdminHandler serves the admin profile and reference data.
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// UpdateProfile
// PUT /api/v1/admin/profile
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateAdminProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminSvc.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, user)
}

// ListDepartments
// GET /api/v1/admin/departments
func (h *AdminHandler) ListDepartments(c *gin.Context) {
	depts, err := h.adminSvc.ListDepartments(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": depts})
}
