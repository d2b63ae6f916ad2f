package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// CourseHandler serves courses, their rosters and the attendance export.
type CourseHandler struct {
	courseSvc  service.CourseService
	studentSvc service.StudentService
	exportSvc  service.ExportService
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(courseSvc service.CourseService, studentSvc service.StudentService, exportSvc service.ExportService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, studentSvc: studentSvc, exportSvc: exportSvc}
}

// ListCourses
// GET /api/v1/admin/courses?page=&page_size=&search=
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var page dto.PaginationRequest
	if !bindQuery(c, &page) {
		return
	}

	courses, total, err := h.courseSvc.List(c.Request.Context(), &page)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, courses, total, page.GetPage(), page.GetPageSize())
}

// GetCourse
// GET /api/v1/admin/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, course)
}

// CreateCourse creates a course and its sessions for the active term.
// POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, course)
}

// UpdateCourse
// PUT /api/v1/admin/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, course)
}

// DeleteCourse
// DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Calendar lists the sessions of a course.
// GET /api/v1/admin/courses/:id/calendar
// GET /api/v1/instructor/courses/:id/calendar
func (h *CourseHandler) Calendar(c *gin.Context) {
	cal, err := h.courseSvc.Calendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, cal)
}

// Students lists the enrolled students with their absence standing.
// GET /api/v1/admin/courses/:id/students
// GET /api/v1/instructor/courses/:id/students
func (h *CourseHandler) Students(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.Students(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// NotEnrolledStudents
// GET /api/v1/admin/courses/:id/not-enrolled
func (h *CourseHandler) NotEnrolledStudents(c *gin.Context) {
	list, err := h.courseSvc.NotEnrolledStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// EnrollStudents
// POST /api/v1/admin/courses/:id/students
func (h *CourseHandler) EnrollStudents(c *gin.Context) {
	var req dto.EnrollStudentsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.courseSvc.EnrollStudents(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// EnrollInstructors
// POST /api/v1/admin/courses/:id/instructors
func (h *CourseHandler) EnrollInstructors(c *gin.Context) {
	var req dto.EnrollInstructorsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.courseSvc.EnrollInstructors(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// DropStudent
// DELETE /api/v1/admin/courses/:id/students/:studentId
func (h *CourseHandler) DropStudent(c *gin.Context) {
	if err := h.courseSvc.DropStudent(c.Request.Context(), c.Param("id"), c.Param("studentId")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// StudentAttendance is one student's record in the course.
// GET /api/v1/admin/courses/:id/students/:studentId/attendance
// GET /api/v1/instructor/courses/:id/students/:studentId/attendance
func (h *CourseHandler) StudentAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	report, err := h.studentSvc.AttendanceReport(c.Request.Context(), actor, c.Param("id"), c.Param("studentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, report)
}

// ExportAttendance downloads the course roster as a workbook.
// GET /api/v1/admin/courses/:id/export
// GET /api/v1/instructor/courses/:id/export
func (h *CourseHandler) ExportAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.CourseAttendance(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.File(c, service.XLSXContentType, filename, buf.Bytes())
}
