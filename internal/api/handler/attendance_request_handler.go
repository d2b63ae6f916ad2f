package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// AttendanceRequestHandler serves absence correction requests.
type AttendanceRequestHandler struct {
	requestSvc service.AttendanceRequestService
}

// NewAttendanceRequestHandler creates an AttendanceRequestHandler.
func NewAttendanceRequestHandler(requestSvc service.AttendanceRequestService) *AttendanceRequestHandler {
	return &AttendanceRequestHandler{requestSvc: requestSvc}
}

// Create appeals one of the caller's absences.
// POST /api/v1/student/attendance-requests
func (h *AttendanceRequestHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.requestSvc.Request(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine
// GET /api/v1/student/attendance-requests
// GET /api/v1/instructor/attendance-requests
func (h *AttendanceRequestHandler) ListMine(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var (
		list []dto.AttendanceRequestResponse
		err  error
	)
	if actor.IsInstructor() {
		list, err = h.requestSvc.ListForInstructor(c.Request.Context(), actor)
	} else {
		list, err = h.requestSvc.ListForStudent(c.Request.Context(), actor)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// UpdateStatus approves or rejects a pending request.
// PUT /api/v1/instructor/attendance-requests/:id
func (h *AttendanceRequestHandler) UpdateStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateAttendanceRequestStatus
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.requestSvc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
