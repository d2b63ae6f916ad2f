package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// TermRepository is data access for academic terms.
type TermRepository interface {
	Create(ctx context.Context, term *model.Term) error
	GetByID(ctx context.Context, id string) (*model.Term, error)
	// GetActiveAt returns the term whose window contains day.
	GetActiveAt(ctx context.Context, day time.Time) (*model.Term, error)
	// Overlapping lists terms (other than excludeID) intersecting [start, end].
	Overlapping(ctx context.Context, start, end time.Time, excludeID string) ([]model.Term, error)
	List(ctx context.Context) ([]model.Term, error)
	Update(ctx context.Context, term *model.Term) error
	Delete(ctx context.Context, id string) error
}

type termRepo struct {
	db *gorm.DB
}

// NewTermRepo creates a TermRepository.
func NewTermRepo(db *gorm.DB) TermRepository {
	return &termRepo{db: db}
}

func (r *termRepo) Create(ctx context.Context, term *model.Term) error {
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *termRepo) GetByID(ctx context.Context, id string) (*model.Term, error) {
	var term model.Term
	err := r.db.WithContext(ctx).
		Where("term_id = ?", id).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *termRepo) GetActiveAt(ctx context.Context, day time.Time) (*model.Term, error) {
	var term model.Term
	d := day.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", d, d).
		Order("start_date DESC").
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *termRepo) Overlapping(ctx context.Context, start, end time.Time, excludeID string) ([]model.Term, error) {
	var terms []model.Term
	q := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", end.Format("2006-01-02"), start.Format("2006-01-02"))
	if excludeID != "" {
		q = q.Where("term_id <> ?", excludeID)
	}
	err := q.Find(&terms).Error
	return terms, err
}

func (r *termRepo) List(ctx context.Context) ([]model.Term, error) {
	var terms []model.Term
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&terms).Error
	return terms, err
}

func (r *termRepo) Update(ctx context.Context, term *model.Term) error {
	return r.db.WithContext(ctx).
		Model(&model.Term{}).
		Where("term_id = ?", term.TermID).
		Updates(map[string]interface{}{
			"name":       term.Name,
			"start_date": term.StartDate,
			"end_date":   term.EndDate,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *termRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("term_id = ?", id).
		Delete(&model.Term{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
