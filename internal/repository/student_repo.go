package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// StudentRepository is data access for student profiles.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByUserID(ctx context.Context, userID string) (*model.Student, error)
	NumberTaken(ctx context.Context, number, excludeID string) (bool, error)
	List(ctx context.Context, params ListParams) ([]model.Student, int64, error)
	// ListNotEnrolled returns students without an active enrollment in the course.
	ListNotEnrolled(ctx context.Context, courseID string) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Department").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, userID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Department").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) NumberTaken(ctx context.Context, number, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_number = ?", number)
	if excludeID != "" {
		q = q.Where("student_id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *studentRepo) List(ctx context.Context, params ListParams) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Joins("JOIN users ON users.user_id = students.user_id")
	if params.Search != "" {
		db = db.Where("users.first_name ILIKE ? OR users.last_name ILIKE ? OR students.student_number ILIKE ?",
			params.like(), params.like(), params.like())
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").Preload("Department").
		Offset(params.Offset).Limit(params.Limit).
		Order("users.last_name ASC, users.first_name ASC").
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepo) ListNotEnrolled(ctx context.Context, courseID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.user_id = students.user_id").
		Where("NOT EXISTS (?)",
			r.db.Model(&model.Enrollment{}).
				Select("1").
				Where("enrollments.student_id = students.student_id AND enrollments.course_id = ? AND enrollments.status = ?",
					courseID, model.EnrollmentActive)).
		Order("users.last_name ASC, users.first_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ?", student.StudentID).
		Updates(map[string]interface{}{
			"student_number": student.StudentNumber,
			"department_id":  student.DepartmentID,
			"major":          student.Major,
			"phone_number":   student.PhoneNumber,
			"image":          student.Image,
			"updated_at":     gorm.Expr("NOW()"),
		}).Error
}
