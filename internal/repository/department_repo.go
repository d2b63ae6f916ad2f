package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// DepartmentRepository is data access for departments.
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByName(ctx context.Context, name string) (*model.Department, error)
	// Ensure returns the department called name, creating it if needed.
	Ensure(ctx context.Context, name string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
}

type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo creates a DepartmentRepository.
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByName(ctx context.Context, name string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) Ensure(ctx context.Context, name string) (*model.Department, error) {
	dept := &model.Department{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(dept).Error
	if err != nil {
		return nil, err
	}
	return r.GetByName(ctx, name)
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}
