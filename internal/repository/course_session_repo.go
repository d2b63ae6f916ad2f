package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// CourseSessionRepository is data access for dated course meetings.
type CourseSessionRepository interface {
	BatchCreate(ctx context.Context, sessions []model.CourseSession) error
	// ListByCourse returns the sessions of a course ordered by date.
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseSession, error)
	UpdateDate(ctx context.Context, id string, date time.Time) error
}

type courseSessionRepo struct {
	db *gorm.DB
}

// NewCourseSessionRepo creates a CourseSessionRepository.
func NewCourseSessionRepo(db *gorm.DB) CourseSessionRepository {
	return &courseSessionRepo{db: db}
}

func (r *courseSessionRepo) BatchCreate(ctx context.Context, sessions []model.CourseSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&sessions).Error
}

func (r *courseSessionRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseSession, error) {
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("date ASC, created_at ASC, course_session_id ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *courseSessionRepo) UpdateDate(ctx context.Context, id string, date time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.CourseSession{}).
		Where("course_session_id = ?", id).
		Updates(map[string]interface{}{
			"date":       date,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}
