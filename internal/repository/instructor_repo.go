package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// InstructorRepository is data access for instructor profiles.
type InstructorRepository interface {
	Create(ctx context.Context, instructor *model.Instructor) error
	GetByID(ctx context.Context, id string) (*model.Instructor, error)
	GetByUserID(ctx context.Context, userID string) (*model.Instructor, error)
	List(ctx context.Context, params ListParams) ([]model.Instructor, int64, error)
	// ListByIDs returns the instructors among ids that exist.
	ListByIDs(ctx context.Context, ids []string) ([]model.Instructor, error)
	Update(ctx context.Context, instructor *model.Instructor) error
}

type instructorRepo struct {
	db *gorm.DB
}

// NewInstructorRepo creates an InstructorRepository.
func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) Create(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}

func (r *instructorRepo) GetByID(ctx context.Context, id string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Department").
		Where("instructor_id = ?", id).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) GetByUserID(ctx context.Context, userID string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Department").
		Where("user_id = ?", userID).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) List(ctx context.Context, params ListParams) ([]model.Instructor, int64, error) {
	var instructors []model.Instructor
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.Instructor{}).
		Joins("JOIN users ON users.user_id = instructors.user_id")
	if params.Search != "" {
		db = db.Where("users.first_name ILIKE ? OR users.last_name ILIKE ? OR users.email ILIKE ?",
			params.like(), params.like(), params.like())
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").Preload("Department").
		Offset(params.Offset).Limit(params.Limit).
		Order("users.last_name ASC, users.first_name ASC").
		Find(&instructors).Error; err != nil {
		return nil, 0, err
	}

	return instructors, total, nil
}

func (r *instructorRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Instructor, error) {
	var instructors []model.Instructor
	if len(ids) == 0 {
		return instructors, nil
	}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("instructor_id IN ?", ids).
		Find(&instructors).Error
	return instructors, err
}

func (r *instructorRepo) Update(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).
		Model(&model.Instructor{}).
		Where("instructor_id = ?", instructor.InstructorID).
		Updates(map[string]interface{}{
			"department_id": instructor.DepartmentID,
			"phone_number":  instructor.PhoneNumber,
			"image":         instructor.Image,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}
