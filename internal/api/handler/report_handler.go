package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/pdf"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// ReportHandler serves schedules and PDF reports.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func writePDF(c *gin.Context, body []byte, filename string, err error) {
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.File(c, pdf.ContentType, filename, body)
}

// CourseAttendance
// GET /api/v1/admin/reports/courses/:id
// GET /api/v1/instructor/reports/courses/:id
func (h *ReportHandler) CourseAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	body, filename, err := h.reportSvc.CourseAttendancePDF(c.Request.Context(), actor, c.Param("id"))
	writePDF(c, body, filename, err)
}

// StudentAttendance
// GET /api/v1/admin/reports/students/:id
func (h *ReportHandler) StudentAttendance(c *gin.Context) {
	body, filename, err := h.reportSvc.StudentAttendancePDF(c.Request.Context(), c.Param("id"))
	writePDF(c, body, filename, err)
}

// StudentCourseAttendance
// GET /api/v1/admin/reports/courses/:id/students/:studentId
// GET /api/v1/instructor/reports/courses/:id/students/:studentId
func (h *ReportHandler) StudentCourseAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	body, filename, err := h.reportSvc.StudentCourseAttendancePDF(c.Request.Context(), actor, c.Param("studentId"), c.Param("id"))
	writePDF(c, body, filename, err)
}

// MySchedule returns the caller's weekly schedule as JSON.
// GET /api/v1/student/schedule
// GET /api/v1/instructor/schedule
func (h *ReportHandler) MySchedule(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	schedule := h.reportSvc.StudentSchedule
	if actor.IsInstructor() {
		schedule = h.reportSvc.InstructorSchedule
	}
	entries, err := schedule(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

// MySchedulePDF
// GET /api/v1/student/schedule/pdf
// GET /api/v1/instructor/schedule/pdf
func (h *ReportHandler) MySchedulePDF(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	render := h.reportSvc.StudentSchedulePDF
	if actor.IsInstructor() {
		render = h.reportSvc.InstructorSchedulePDF
	}
	body, filename, err := render(c.Request.Context(), actor)
	writePDF(c, body, filename, err)
}

// MyScheduleICS exports every session of the caller's courses.
// GET /api/v1/student/schedule/ics
// GET /api/v1/instructor/schedule/ics
func (h *ReportHandler) MyScheduleICS(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	export := h.reportSvc.StudentScheduleICS
	if actor.IsInstructor() {
		export = h.reportSvc.InstructorScheduleICS
	}
	body, filename, err := export(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.File(c, service.ICSContentType, filename, body)
}

// MyAttendance is the calling student's report across courses.
// GET /api/v1/student/reports/attendance
func (h *ReportHandler) MyAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	body, filename, err := h.reportSvc.StudentAttendancePDF(c.Request.Context(), actor.ProfileID)
	writePDF(c, body, filename, err)
}

// MyCourseAttendance
// GET /api/v1/student/reports/courses/:id
func (h *ReportHandler) MyCourseAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	body, filename, err := h.reportSvc.StudentCourseAttendancePDF(c.Request.Context(), actor, actor.ProfileID, c.Param("id"))
	writePDF(c, body, filename, err)
}
