package dto

import "github.com/Chafic123/Attendance-Backend/internal/attendance"

// ── students ──

// CreateStudentRequest creates a student account. A missing password
// defaults to the student number.
type CreateStudentRequest struct {
	FirstName     string  `json:"first_name"     binding:"required,max=255"`
	LastName      string  `json:"last_name"      binding:"required,max=255"`
	Email         string  `json:"email"          binding:"required,email"`
	StudentNumber string  `json:"student_number" binding:"required,max=50"`
	DepartmentID  *string `json:"department_id"  binding:"omitempty,uuid"`
	Major         string  `json:"major"          binding:"omitempty,max=255"`
	PhoneNumber   *string `json:"phone_number"   binding:"omitempty,max=15"`
	Password      string  `json:"password"       binding:"omitempty,min=8,max=72"`
}

// UpdateStudentRequest patches a student.
type UpdateStudentRequest struct {
	FirstName     *string `json:"first_name"     binding:"omitempty,max=255"`
	LastName      *string `json:"last_name"      binding:"omitempty,max=255"`
	Email         *string `json:"email"          binding:"omitempty,email"`
	StudentNumber *string `json:"student_number" binding:"omitempty,max=50"`
	DepartmentID  *string `json:"department_id"  binding:"omitempty,uuid"`
	Major         *string `json:"major"          binding:"omitempty,max=255"`
	PhoneNumber   *string `json:"phone_number"   binding:"omitempty,max=15"`
}

// UpdateProfileRequest is a self-service profile edit.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"   binding:"omitempty,max=255"`
	LastName    *string `json:"last_name"    binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
}

// StudentResponse is a student profile.
type StudentResponse struct {
	ID            string              `json:"id"`
	StudentNumber string              `json:"student_number"`
	User          UserResponse        `json:"user"`
	Department    *DepartmentResponse `json:"department,omitempty"`
	Major         string              `json:"major"`
	PhoneNumber   *string             `json:"phone_number,omitempty"`
	Image         *string             `json:"image,omitempty"`
}

// StudentCourseResponse is an active course of a student.
type StudentCourseResponse struct {
	Course            CourseResponse `json:"course"`
	EnrollmentDate    string         `json:"enrollment_date"`
	AbsencePercentage float64        `json:"absence_percentage"`
	Status            string         `json:"status"`
}

// StudentCalendarEntry is one session in a student's course calendar.
type StudentCalendarEntry struct {
	SessionID string `json:"session_id"`
	// AttendanceID is the row an absence appeal refers to; empty when the
	// session has no attendance row for the student.
	AttendanceID string `json:"attendance_id,omitempty"`
	Date         string `json:"date"`
	DayName      string `json:"day_name"`
	Status       string `json:"status"`
}

// StudentCalendarResponse is a student's sessions in one course.
type StudentCalendarResponse struct {
	CourseID  string                 `json:"course_id"`
	StudentID string                 `json:"student_id"`
	Entries   []StudentCalendarEntry `json:"entries"`
}

// AttendanceReportRow is one session outcome.
type AttendanceReportRow struct {
	AttendanceID string `json:"attendance_id"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// AttendanceReportResponse is a student's record in one course.
type AttendanceReportResponse struct {
	Student StudentResponse       `json:"student"`
	Course  CourseResponse        `json:"course"`
	Rows    []AttendanceReportRow `json:"rows"`
	Summary attendance.Summary    `json:"summary"`
}
