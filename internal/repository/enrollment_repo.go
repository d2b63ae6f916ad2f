package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// EnrollmentRepository is data access for student enrollments.
type EnrollmentRepository interface {
	Get(ctx context.Context, courseID, studentID string) (*model.Enrollment, error)
	// Upsert inserts the enrollment or overwrites status and date of an
	// existing one.
	Upsert(ctx context.Context, enrollment *model.Enrollment) error
	// SetStatus changes the status of an existing enrollment; it returns
	// gorm.ErrRecordNotFound when the student is not enrolled.
	SetStatus(ctx context.Context, courseID, studentID, status string) error
	// ListByCourse returns enrollments with students; dropped ones are
	// skipped unless includeDropped.
	ListByCourse(ctx context.Context, courseID string, includeDropped bool) ([]model.Enrollment, error)
	// ListActiveByStudent returns the student's active enrollments with courses.
	ListActiveByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo creates an EnrollmentRepository.
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Get(ctx context.Context, courseID, studentID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) Upsert(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "enrollment_date", "updated_at"}),
		}).
		Create(enrollment).Error
}

func (r *enrollmentRepo) SetStatus(ctx context.Context, courseID, studentID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID string, includeDropped bool) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	q := r.db.WithContext(ctx).
		Preload("Student.User").
		Joins("JOIN students s ON s.student_id = enrollments.student_id").
		Joins("JOIN users u ON u.user_id = s.user_id").
		Where("enrollments.course_id = ?", courseID)
	if !includeDropped {
		q = q.Where("enrollments.status <> ?", model.EnrollmentDropped)
	}
	err := q.Order("u.last_name ASC, u.first_name ASC").Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListActiveByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course.Instructors.User").
		Joins("JOIN courses c ON c.course_id = enrollments.course_id").
		Where("enrollments.student_id = ? AND enrollments.status = ?", studentID, model.EnrollmentActive).
		Order("c.code ASC, c.section ASC").
		Find(&enrollments).Error
	return enrollments, err
}
