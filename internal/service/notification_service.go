package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	"github.com/Chafic123/Attendance-Backend/pkg/mail"
)

// NotificationService delivers in-app notifications with an optional e-mail copy.
type NotificationService interface {
	// Send notifies every active student of a course the caller teaches.
	Send(ctx context.Context, actor Actor, req *dto.SendNotificationRequest) (*dto.SendNotificationResult, error)
	ListForStudent(ctx context.Context, actor Actor) ([]dto.NotificationResponse, error)
	ListForInstructor(ctx context.Context, actor Actor) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, actor Actor, id string) error
}

type notificationService struct {
	repo   *repository.Repository
	mailer mail.Sender
	logger *zap.Logger
}

// NewNotificationService creates a NotificationService. A nil mailer
// disables the e-mail copy.
func NewNotificationService(repo *repository.Repository, mailer mail.Sender, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, mailer: mailer, logger: logger}
}

func (s *notificationService) Send(ctx context.Context, actor Actor, req *dto.SendNotificationRequest) (*dto.SendNotificationResult, error) {
	course, err := loadCourse(ctx, s.repo, s.logger, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := checkTeaches(ctx, s.repo, actor, req.CourseID); err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, req.CourseID, false)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	data, err := encodeData(req.Data)
	if err != nil {
		return nil, fieldError("data", "must be a JSON object")
	}
	kind := req.Type
	if kind == "" {
		kind = model.NotificationCourseMessage
	}

	notifications := make([]model.Notification, 0, len(enrollments))
	for _, e := range enrollments {
		studentID := e.StudentID
		courseID := req.CourseID
		notifications = append(notifications, model.Notification{
			RecipientRole: model.RoleStudent,
			StudentID:     &studentID,
			CourseID:      &courseID,
			Message:       req.Message,
			Type:          kind,
			Data:          data,
		})
	}
	if err := s.repo.Notification.BatchCreate(ctx, notifications); err != nil {
		s.logger.Error("create notifications failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	result := &dto.SendNotificationResult{Recipients: len(notifications)}
	subject := fmt.Sprintf("%s-%s: new message", course.Code, course.Section)
	for _, e := range enrollments {
		if e.Student == nil || e.Student.User == nil {
			continue
		}
		if s.email(ctx, e.Student.User.Email, subject, req.Message) {
			result.Emailed++
		}
	}

	s.logger.Info("course notification sent",
		zap.String("course_id", req.CourseID),
		zap.Int("recipients", result.Recipients),
		zap.Int("emailed", result.Emailed),
	)
	return result, nil
}

func (s *notificationService) ListForStudent(ctx context.Context, actor Actor) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListForStudent(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("student_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return toNotificationResponses(list), nil
}

func (s *notificationService) ListForInstructor(ctx context.Context, actor Actor) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListForInstructor(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("instructor_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return toNotificationResponses(list), nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id string) error {
	n, err := s.repo.Notification.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if !n.AddressedTo(actor.Role, actor.ProfileID) {
		return ErrNotRecipient
	}
	if n.IsRead {
		return nil
	}
	return s.repo.Notification.MarkRead(ctx, id)
}

// email sends a best-effort copy and reports whether it was handed off.
func (s *notificationService) email(ctx context.Context, to, subject, body string) bool {
	if s.mailer == nil || to == "" {
		return false
	}
	err := s.mailer.Send(ctx, mail.Message{
		To:      to,
		Subject: subject,
		HTML:    "<p>" + html.EscapeString(body) + "</p>",
	})
	if err != nil {
		s.logger.Warn("notification e-mail failed", zap.String("to", to), zap.Error(err))
		return false
	}
	return true
}

// ── helpers ──

func encodeData(data map[string]interface{}) (datatypes.JSON, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func toNotificationResponses(list []model.Notification) []dto.NotificationResponse {
	result := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		resp := dto.NotificationResponse{
			ID:        n.NotificationID,
			CourseID:  n.CourseID,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if len(n.Data) > 0 {
			_ = json.Unmarshal(n.Data, &resp.Data)
		}
		result = append(result, resp)
	}
	return result
}

// notifyInstructors stores one notification for every instructor of a course.
func notifyInstructors(ctx context.Context, repo *repository.Repository, courseID, kind, message string, data map[string]interface{}) error {
	ids, err := repo.Course.InstructorIDs(ctx, courseID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	payload, err := encodeData(data)
	if err != nil {
		return err
	}

	notifications := make([]model.Notification, 0, len(ids))
	for _, id := range ids {
		instructorID := id
		cid := courseID
		notifications = append(notifications, model.Notification{
			RecipientRole: model.RoleInstructor,
			InstructorID:  &instructorID,
			CourseID:      &cid,
			Message:       message,
			Type:          kind,
			Data:          payload,
		})
	}
	return repo.Notification.BatchCreate(ctx, notifications)
}
