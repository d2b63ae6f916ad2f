package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// StudentHandler serves student accounts and the student's own views.
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler creates a StudentHandler.
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// ────────────────────── admin ──────────────────────

// ListStudents
// GET /api/v1/admin/students?page=&page_size=&search=
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var page dto.PaginationRequest
	if !bindQuery(c, &page) {
		return
	}

	students, total, err := h.studentSvc.List(c.Request.Context(), &page)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKPage(c, students, total, page.GetPage(), page.GetPageSize())
}

// GetStudent
// GET /api/v1/admin/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, student)
}

// CreateStudent
// POST /api/v1/admin/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, student)
}

// UpdateStudent
// PUT /api/v1/admin/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, student)
}

// DeleteStudent
// DELETE /api/v1/admin/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.studentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// StudentCourses lists a student's active courses.
// GET /api/v1/admin/students/:id/courses
func (h *StudentHandler) StudentCourses(c *gin.Context) {
	list, err := h.studentSvc.Courses(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ImportStudents creates accounts from an uploaded workbook.
// POST /api/v1/admin/students/import (multipart/form-data, field "file")
func (h *StudentHandler) ImportStudents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 14100, "upload an .xlsx file in the \"file\" field")
		return
	}
	defer file.Close()

	rows, err := service.ParseStudentImport(file)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result, err := h.studentSvc.ImportStudents(c.Request.Context(), rows)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// ────────────────────── self ──────────────────────

// MyCourses
// GET /api/v1/student/courses
func (h *StudentHandler) MyCourses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.studentSvc.Courses(c.Request.Context(), actor.ProfileID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// MyCalendar labels the sessions of one of the caller's courses.
// GET /api/v1/student/courses/:id/calendar
func (h *StudentHandler) MyCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	cal, err := h.studentSvc.Calendar(c.Request.Context(), actor.ProfileID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, cal)
}

// MyAttendance
// GET /api/v1/student/courses/:id/attendance
func (h *StudentHandler) MyAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	report, err := h.studentSvc.AttendanceReport(c.Request.Context(), actor, c.Param("id"), actor.ProfileID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, report)
}

// UpdateProfile
// PUT /api/v1/student/profile
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentSvc.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, student)
}
