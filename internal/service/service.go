package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/config"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	"github.com/Chafic123/Attendance-Backend/pkg/jwt"
	"github.com/Chafic123/Attendance-Backend/pkg/mail"
	"github.com/Chafic123/Attendance-Backend/pkg/pdf"
)

// Actor is the authenticated caller. ProfileID is the admin, instructor or
// student id matching Role.
type Actor struct {
	UserID    string
	Role      string
	ProfileID string
}

func (a Actor) IsAdmin() bool      { return a.Role == model.RoleAdmin }
func (a Actor) IsInstructor() bool { return a.Role == model.RoleInstructor }
func (a Actor) IsStudent() bool    { return a.Role == model.RoleStudent }

// TokenStore revokes tokens. A nil TokenStore disables revocation.
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Deps are the collaborators shared by services.
type Deps struct {
	Config   *config.Config
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Tokens   TokenStore
	Mailer   mail.Sender
	Renderer *pdf.Renderer
	Logger   *zap.Logger
}

// Service aggregates every service.
type Service struct {
	Auth              AuthService
	Term              TermService
	Course            CourseService
	Student           StudentService
	Instructor        InstructorService
	Admin             AdminService
	Notification      NotificationService
	AttendanceRequest AttendanceRequestService
	Report            ReportService
	Export            ExportService
}

// NewService wires the aggregate.
func NewService(d Deps) *Service {
	return &Service{
		Auth:              NewAuthService(d.Config, d.Repo, d.JWT, d.Tokens, d.Logger),
		Term:              NewTermService(d.Repo, d.Logger),
		Course:            NewCourseService(d.Repo, d.Logger),
		Student:           NewStudentService(d.Repo, d.Logger),
		Instructor:        NewInstructorService(d.Repo, d.Logger),
		Admin:             NewAdminService(d.Repo, d.Logger),
		Notification:      NewNotificationService(d.Repo, d.Mailer, d.Logger),
		AttendanceRequest: NewAttendanceRequestService(d.Repo, d.Logger),
		Report:            NewReportService(d.Repo, d.Renderer, d.Logger),
		Export:            NewExportService(d.Repo, d.Logger),
	}
}
