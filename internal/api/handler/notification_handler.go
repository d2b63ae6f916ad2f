package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// NotificationHandler serves course notifications.
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// Send notifies the active students of a course.
// POST /api/v1/instructor/notifications
func (h *NotificationHandler) Send(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.SendNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.notificationSvc.Send(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine lists the caller's notifications.
// GET /api/v1/student/notifications
// GET /api/v1/instructor/notifications
func (h *NotificationHandler) ListMine(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var (
		list []dto.NotificationResponse
		err  error
	)
	if actor.IsInstructor() {
		list, err = h.notificationSvc.ListForInstructor(c.Request.Context(), actor)
	} else {
		list, err = h.notificationSvc.ListForStudent(c.Request.Context(), actor)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// MarkRead
// PUT /api/v1/student/notifications/:id/read
// PUT /api/v1/instructor/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
