package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// AttendanceRepository is data access for per-session attendance rows.
type AttendanceRepository interface {
	// Create inserts a row; an existing (session, student) pair is left as is.
	Create(ctx context.Context, attendance *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	// ListByCourse returns all rows of the course's sessions, sessions preloaded.
	ListByCourse(ctx context.Context, courseID string) ([]model.Attendance, error)
	ListByStudentCourse(ctx context.Context, studentID, courseID string) ([]model.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Attendance, error)
	MarkPresent(ctx context.Context, id string, at time.Time) error
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_session_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(attendance).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Joins("JOIN course_sessions cs ON cs.course_session_id = attendances.course_session_id").
		Where("cs.course_id = ?", courseID).
		Order("cs.date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) ListByStudentCourse(ctx context.Context, studentID, courseID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Joins("JOIN course_sessions cs ON cs.course_session_id = attendances.course_session_id").
		Where("attendances.student_id = ? AND cs.course_id = ?", studentID, courseID).
		Order("cs.date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Joins("JOIN course_sessions cs ON cs.course_session_id = attendances.course_session_id").
		Where("attendances.student_id = ?", studentID).
		Order("cs.date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) MarkPresent(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_id = ?", id).
		Updates(map[string]interface{}{
			"is_present":  true,
			"attended_at": at,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}
