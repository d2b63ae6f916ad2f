package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// InstructorHandler serves instructor accounts and the instructor's own views.
type InstructorHandler struct {
	instructorSvc service.InstructorService
}

// NewInstructorHandler creates an InstructorHandler.
func NewInstructorHandler(instructorSvc service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructorSvc: instructorSvc}
}

// ListInstructors
// GET /api/v1/admin/instructors?page=&page_size=&search=
func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	var page dto.PaginationRequest
	if !bindQuery(c, &page) {
		return
	}

	list, total, err := h.instructorSvc.List(c.Request.Context(), &page)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// GetInstructor
// GET /api/v1/admin/instructors/:id
func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	inst, err := h.instructorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, inst)
}

// CreateInstructor
// POST /api/v1/admin/instructors
func (h *InstructorHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if !bindJSON(c, &req) {
		return
	}

	inst, err := h.instructorSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, inst)
}

// UpdateInstructor
// PUT /api/v1/admin/instructors/:id
func (h *InstructorHandler) UpdateInstructor(c *gin.Context) {
	var req dto.UpdateInstructorRequest
	if !bindJSON(c, &req) {
		return
	}

	inst, err := h.instructorSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, inst)
}

// DeleteInstructor
// DELETE /api/v1/admin/instructors/:id
func (h *InstructorHandler) DeleteInstructor(c *gin.Context) {
	if err := h.instructorSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// MyCourses
// GET /api/v1/instructor/courses
func (h *InstructorHandler) MyCourses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.instructorSvc.Courses(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// UpdateProfile
// PUT /api/v1/instructor/profile
func (h *InstructorHandler) UpdateProfile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	inst, err := h.instructorSvc.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, inst)
}
