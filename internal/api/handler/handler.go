package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth              *AuthHandler
	Term              *TermHandler
	Course            *CourseHandler
	Student           *StudentHandler
	Instructor        *InstructorHandler
	Admin             *AdminHandler
	Notification      *NotificationHandler
	AttendanceRequest *AttendanceRequestHandler
	Report            *ReportHandler
}

// NewHandler wires handlers to services.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:              NewAuthHandler(svc.Auth),
		Term:              NewTermHandler(svc.Term),
		Course:            NewCourseHandler(svc.Course, svc.Student, svc.Export),
		Student:           NewStudentHandler(svc.Student),
		Instructor:        NewInstructorHandler(svc.Instructor),
		Admin:             NewAdminHandler(svc.Admin),
		Notification:      NewNotificationHandler(svc.Notification),
		AttendanceRequest: NewAttendanceRequestHandler(svc.AttendanceRequest),
		Report:            NewReportHandler(svc.Report),
	}
}

// Generic business codes.
const (
	codeValidation      = 10001
	codeUnauthenticated = 10002
	codeForbidden       = 10003
	codeNotFound        = 10006
	codeConflict        = 10007
	codeStaleVersion    = 10008
)

// errorCodes maps service sentinels to business codes. Unlisted errors fall
// back to the generic code of their kind.
var errorCodes = []struct {
	err  error
	code int
}{
	{service.ErrInvalidCredentials, 11001},
	{service.ErrInvalidToken, 11002},
	{service.ErrWrongPassword, 11003},
	{service.ErrUserNotFound, 11004},
	{service.ErrProfileMissing, 11005},

	{service.ErrTermNotFound, 12001},
	{service.ErrNoActiveTerm, 12002},
	{service.ErrTermDateInvalid, 12003},
	{service.ErrTermOverlap, 12004},

	{service.ErrCourseNotFound, 13001},
	{service.ErrCourseCodeTaken, 13002},
	{service.ErrCourseRoomConflict, 13003},
	{service.ErrNotCourseInstructor, 13004},
	{service.ErrStudentNotEnrolled, 13005},
	{service.ErrEnrollmentInactive, 13006},
	{service.ErrEnrollmentDropped, 13007},

	{service.ErrStudentNotFound, 14001},
	{service.ErrStudentNumberTaken, 14002},
	{service.ErrEmailTaken, 14003},
	{service.ErrDepartmentNotFound, 14004},
	{service.ErrImportUnreadable, 14101},
	{service.ErrImportNoData, 14102},
	{service.ErrImportBadHeader, 14103},
	{service.ErrImportTooManyRows, 14104},

	{service.ErrInstructorNotFound, 15001},

	{service.ErrNotificationNotFound, 16001},
	{service.ErrNotRecipient, 16002},

	{service.ErrAttendanceNotFound, 17001},
	{service.ErrNotOwnAttendance, 17002},
	{service.ErrNotAnAbsence, 17003},
	{service.ErrRequestPending, 17004},
	{service.ErrRequestNotFound, 17005},
	{service.ErrRequestNotPending, 17006},
}

func businessCode(err error, fallback int) int {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return fallback
}

// handleServiceError renders a service error. Unknown errors are attached to
// the gin context for the request logger and answered with a 500.
func handleServiceError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	var roomErr *service.RoomConflictError

	switch {
	case errors.As(err, &fieldErr):
		response.ValidationFailed(c, fieldErr.Fields)
	case errors.As(err, &roomErr):
		response.ErrorWithData(c, http.StatusConflict, businessCode(err, codeConflict), err.Error(),
			dto.CourseConflictDetails{ConflictWith: roomErr.With})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, businessCode(err, codeUnauthenticated), err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, codeStaleVersion, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, businessCode(err, codeNotFound), err.Error())
	case errors.Is(err, pkgerrors.ErrValidation):
		response.Error(c, http.StatusUnprocessableEntity, businessCode(err, codeValidation), err.Error())
	case errors.Is(err, pkgerrors.ErrConflict):
		response.Conflict(c, businessCode(err, codeConflict), err.Error())
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, businessCode(err, codeForbidden), err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// ── binding ──

func bindJSON(c *gin.Context, req interface{}) bool {
	return bindResult(c, c.ShouldBindJSON(req))
}

func bindQuery(c *gin.Context, req interface{}) bool {
	return bindResult(c, c.ShouldBindQuery(req))
}

func bindResult(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fieldMessage(fe)
		}
		response.ValidationFailed(c, fields)
		return false
	}
	response.BadRequest(c, codeValidation, "malformed request body")
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "weekdays":
		return "must be a combination of the letters U, M, T, W, R, F, S"
	case "hhmm":
		return "must be a time in HH:MM format"
	}
	return "is invalid"
}
