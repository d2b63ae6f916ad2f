package service

import (
	"errors"
	"strings"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
)

// kindError is a sentinel tagged with one of the pkg/errors kinds.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// FieldError reports invalid input fields by json name.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *FieldError) Unwrap() error { return pkgerrors.ErrValidation }

func fieldError(field, msg string) error {
	return &FieldError{Fields: map[string]string{field: msg}}
}

// RoomConflictError names the course that already holds the room.
type RoomConflictError struct {
	With dto.CourseResponse
}

func (e *RoomConflictError) Error() string {
	return "room " + e.With.Room + " is already booked by " + e.With.Code + "-" + e.With.Section
}

func (e *RoomConflictError) Unwrap() error { return ErrCourseRoomConflict }

// ── auth ──

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or revoked token")
	ErrWrongPassword      = newError(pkgerrors.ErrValidation, "current password is incorrect")
	ErrUserNotFound       = newError(pkgerrors.ErrNotFound, "user not found")
	ErrProfileMissing     = newError(pkgerrors.ErrNotFound, "profile not found for user")
)

// ── terms ──

var (
	ErrTermNotFound    = newError(pkgerrors.ErrNotFound, "term not found")
	ErrNoActiveTerm    = newError(pkgerrors.ErrNotFound, "no active term")
	ErrTermDateInvalid = newError(pkgerrors.ErrValidation, "end_date must be after start_date")
	ErrTermOverlap     = newError(pkgerrors.ErrConflict, "term dates overlap an existing term")
)

// ── courses and enrollment ──

var (
	ErrCourseNotFound      = newError(pkgerrors.ErrNotFound, "course not found")
	ErrCourseCodeTaken     = newError(pkgerrors.ErrConflict, "a course with this code and section already exists")
	ErrCourseRoomConflict  = newError(pkgerrors.ErrConflict, "room is already booked at this time")
	ErrInstructorNotFound  = newError(pkgerrors.ErrNotFound, "instructor not found")
	ErrStudentNotFound     = newError(pkgerrors.ErrNotFound, "student not found")
	ErrNotCourseInstructor = newError(pkgerrors.ErrForbidden, "you do not teach this course")
	ErrStudentNotEnrolled  = newError(pkgerrors.ErrNotFound, "student is not enrolled in this course")
	ErrEnrollmentInactive  = newError(pkgerrors.ErrForbidden, "enrollment is not active")
	ErrEnrollmentDropped   = newError(pkgerrors.ErrForbidden, "student has dropped this course")
)

// ── people ──

var (
	ErrEmailTaken         = newError(pkgerrors.ErrConflict, "email is already registered")
	ErrStudentNumberTaken = newError(pkgerrors.ErrConflict, "student number is already registered")
	ErrDepartmentNotFound = newError(pkgerrors.ErrNotFound, "department not found")
)

// ── notifications and requests ──

var (
	ErrNotificationNotFound = newError(pkgerrors.ErrNotFound, "notification not found")
	ErrNotRecipient         = newError(pkgerrors.ErrForbidden, "notification belongs to another user")
	ErrAttendanceNotFound   = newError(pkgerrors.ErrNotFound, "attendance record not found")
	ErrNotOwnAttendance     = newError(pkgerrors.ErrForbidden, "attendance record belongs to another student")
	ErrNotAnAbsence         = newError(pkgerrors.ErrValidation, "only recorded absences can be appealed")
	ErrRequestPending       = newError(pkgerrors.ErrConflict, "a pending request already exists for this attendance")
	ErrRequestNotFound      = newError(pkgerrors.ErrNotFound, "attendance request not found")
	ErrRequestNotPending    = newError(pkgerrors.ErrConflict, "attendance request has already been decided")
)

// ── import ──

var (
	ErrImportNoData      = newError(pkgerrors.ErrValidation, "spreadsheet has no data rows (first row is the header)")
	ErrImportTooManyRows = newError(pkgerrors.ErrValidation, "spreadsheet exceeds the row limit")
	ErrImportBadHeader   = newError(pkgerrors.ErrValidation, "spreadsheet header must contain first_name, last_name, email and student_number")
	ErrImportUnreadable  = newError(pkgerrors.ErrValidation, "file is not a readable xlsx workbook")
)
