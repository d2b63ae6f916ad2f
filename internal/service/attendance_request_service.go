package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/calendar"
	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// AttendanceRequestService handles students' appeals against absences.
type AttendanceRequestService interface {
	Request(ctx context.Context, actor Actor, req *dto.CreateAttendanceRequest) (*dto.AttendanceRequestResponse, error)
	ListForInstructor(ctx context.Context, actor Actor) ([]dto.AttendanceRequestResponse, error)
	ListForStudent(ctx context.Context, actor Actor) ([]dto.AttendanceRequestResponse, error)
	// UpdateStatus decides a pending request. Approval marks the attendance
	// present.
	UpdateStatus(ctx context.Context, actor Actor, id string, req *dto.UpdateAttendanceRequestStatus) (*dto.AttendanceRequestResponse, error)
}

type attendanceRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceRequestService creates an AttendanceRequestService.
func NewAttendanceRequestService(repo *repository.Repository, logger *zap.Logger) AttendanceRequestService {
	return &attendanceRequestService{repo: repo, logger: logger, now: time.Now}
}

func (s *attendanceRequestService) Request(ctx context.Context, actor Actor, req *dto.CreateAttendanceRequest) (*dto.AttendanceRequestResponse, error) {
	att, err := s.repo.Attendance.GetByID(ctx, req.AttendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	if att.StudentID != actor.ProfileID {
		return nil, ErrNotOwnAttendance
	}
	if att.IsPresent == nil || *att.IsPresent {
		return nil, ErrNotAnAbsence
	}
	if att.Session == nil {
		return nil, ErrAttendanceNotFound
	}
	courseID := att.Session.CourseID

	enrollment, err := s.repo.Enrollment.Get(ctx, courseID, actor.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentInactive
		}
		return nil, err
	}
	if !enrollment.IsActive() {
		return nil, ErrEnrollmentInactive
	}

	pending, err := s.repo.AttendanceRequest.HasPending(ctx, att.AttendanceID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestPending
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fieldError("reason", "is required")
	}

	record := &model.AttendanceRequest{
		StudentID:    actor.ProfileID,
		AttendanceID: att.AttendanceID,
		Status:       model.RequestPending,
		Reason:       reason,
		RequestDate:  today(s.now),
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.AttendanceRequest.Create(ctx, record); err != nil {
			return err
		}
		msg := fmt.Sprintf("New attendance request for the session on %s", formatDate(att.Session.Date))
		return notifyInstructors(ctx, tx, courseID, model.NotificationAttendanceRequest, msg, map[string]interface{}{
			"attendance_request_id": record.AttendanceRequestID,
			"attendance_id":         att.AttendanceID,
			"student_id":            actor.ProfileID,
		})
	})
	if err != nil {
		s.logger.Error("create attendance request failed", zap.String("attendance_id", att.AttendanceID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("attendance request created",
		zap.String("attendance_request_id", record.AttendanceRequestID),
		zap.String("student_id", actor.ProfileID),
	)
	record.Attendance = att
	return toAttendanceRequestResponse(record), nil
}

func (s *attendanceRequestService) ListForInstructor(ctx context.Context, actor Actor) ([]dto.AttendanceRequestResponse, error) {
	list, err := s.repo.AttendanceRequest.ListByInstructor(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list attendance requests failed", zap.String("instructor_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return toAttendanceRequestResponses(list), nil
}

func (s *attendanceRequestService) ListForStudent(ctx context.Context, actor Actor) ([]dto.AttendanceRequestResponse, error) {
	list, err := s.repo.AttendanceRequest.ListByStudent(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list attendance requests failed", zap.String("student_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return toAttendanceRequestResponses(list), nil
}

func (s *attendanceRequestService) UpdateStatus(ctx context.Context, actor Actor, id string, req *dto.UpdateAttendanceRequestStatus) (*dto.AttendanceRequestResponse, error) {
	record, err := s.repo.AttendanceRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if record.Attendance == nil || record.Attendance.Session == nil {
		return nil, ErrAttendanceNotFound
	}
	session := record.Attendance.Session
	if err := checkTeaches(ctx, s.repo, actor, session.CourseID); err != nil {
		return nil, err
	}
	if record.Status != model.RequestPending {
		return nil, ErrRequestNotPending
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.AttendanceRequest.Transition(ctx, id, model.RequestPending, req.Status)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRequestNotPending
		}
		if req.Status == model.RequestApproved {
			at := calendar.Date(session.Date).Add(attendanceHour * time.Hour)
			if err := tx.Attendance.MarkPresent(ctx, record.AttendanceID, at); err != nil {
				return err
			}
		}

		studentID := record.StudentID
		courseID := session.CourseID
		return tx.Notification.BatchCreate(ctx, []model.Notification{{
			RecipientRole: model.RoleStudent,
			StudentID:     &studentID,
			CourseID:      &courseID,
			Message:       fmt.Sprintf("Your attendance request for %s was %s", formatDate(session.Date), req.Status),
			Type:          model.NotificationRequestDecision,
		}})
	})
	if err != nil {
		if !errors.Is(err, ErrRequestNotPending) {
			s.logger.Error("decide attendance request failed", zap.String("attendance_request_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("attendance request decided",
		zap.String("attendance_request_id", id),
		zap.String("status", req.Status),
	)
	record.Status = req.Status
	return toAttendanceRequestResponse(record), nil
}

// ── helpers ──

func toAttendanceRequestResponse(r *model.AttendanceRequest) *dto.AttendanceRequestResponse {
	resp := &dto.AttendanceRequestResponse{
		ID:           r.AttendanceRequestID,
		StudentID:    r.StudentID,
		AttendanceID: r.AttendanceID,
		Status:       r.Status,
		Reason:       r.Reason,
		RequestDate:  formatDate(r.RequestDate),
	}
	if r.Student != nil {
		resp.StudentName = r.Student.User.FullName()
	}
	if r.Attendance != nil && r.Attendance.Session != nil {
		resp.CourseID = r.Attendance.Session.CourseID
		resp.SessionDate = formatDate(r.Attendance.Session.Date)
	}
	return resp
}

func toAttendanceRequestResponses(list []model.AttendanceRequest) []dto.AttendanceRequestResponse {
	result := make([]dto.AttendanceRequestResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAttendanceRequestResponse(&list[i]))
	}
	return result
}
