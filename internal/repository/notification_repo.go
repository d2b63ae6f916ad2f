package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// NotificationRepository is data access for in-app notifications.
type NotificationRepository interface {
	BatchCreate(ctx context.Context, notifications []model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	ListForStudent(ctx context.Context, studentID string) ([]model.Notification, error)
	ListForInstructor(ctx context.Context, instructorID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a NotificationRepository.
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) ListForStudent(ctx context.Context, studentID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_role = ? AND student_id = ?", model.RoleStudent, studentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) ListForInstructor(ctx context.Context, instructorID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_role = ? AND instructor_id = ?", model.RoleInstructor, instructorID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}
