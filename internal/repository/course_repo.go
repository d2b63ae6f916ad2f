package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Chafic123/Attendance-Backend/internal/model"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
)

// CourseRepository is data access for courses and their instructor links.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, params ListParams) ([]model.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error)
	// Update saves the editable columns when course.Version still matches,
	// otherwise returns ErrOptimisticLock.
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error

	CodeSectionTaken(ctx context.Context, code, section, excludeID string) (bool, error)
	// ListRoomOverlaps returns courses (other than excludeID) in room whose
	// time range strictly overlaps [start, end). Weekdays are not filtered.
	ListRoomOverlaps(ctx context.Context, room, start, end, excludeID string) ([]model.Course, error)

	// SyncInstructor makes instructorID the only instructor of the course.
	SyncInstructor(ctx context.Context, courseID, instructorID string) error
	// AttachInstructor links an instructor, ignoring an existing link.
	AttachInstructor(ctx context.Context, courseID, instructorID string) error
	IsInstructorOf(ctx context.Context, courseID, instructorID string) (bool, error)
	InstructorIDs(ctx context.Context, courseID string) ([]string, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructors.User").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, params ListParams) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if params.Search != "" {
		db = db.Where("code ILIKE ? OR name ILIKE ?", params.like(), params.like())
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Instructors.User").Preload("Instructors.Department").
		Offset(params.Offset).Limit(params.Limit).
		Order("code ASC, section ASC").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructors.User").
		Joins("JOIN course_instructors ci ON ci.course_id = courses.course_id").
		Where("ci.instructor_id = ?", instructorID).
		Order("courses.code ASC, courses.section ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"code":        course.Code,
			"section":     course.Section,
			"name":        course.Name,
			"day_of_week": course.DayOfWeek,
			"start_time":  course.StartTime,
			"end_time":    course.EndTime,
			"room":        course.Room,
			"credits":     course.Credits,
			"version":     oldVersion + 1,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version = oldVersion + 1
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) CodeSectionTaken(ctx context.Context, code, section, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("code = ? AND section = ?", code, section)
	if excludeID != "" {
		q = q.Where("course_id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *courseRepo) ListRoomOverlaps(ctx context.Context, room, start, end, excludeID string) ([]model.Course, error) {
	var courses []model.Course
	q := r.db.WithContext(ctx).
		Where("room = ? AND start_time < ? AND end_time > ?", room, end, start)
	if excludeID != "" {
		q = q.Where("course_id <> ?", excludeID)
	}
	err := q.Order("code ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) SyncInstructor(ctx context.Context, courseID, instructorID string) error {
	db := r.db.WithContext(ctx)
	if err := db.
		Where("course_id = ? AND instructor_id <> ?", courseID, instructorID).
		Delete(&model.CourseInstructor{}).Error; err != nil {
		return err
	}
	return r.AttachInstructor(ctx, courseID, instructorID)
}

func (r *courseRepo) AttachInstructor(ctx context.Context, courseID, instructorID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CourseInstructor{CourseID: courseID, InstructorID: instructorID}).Error
}

func (r *courseRepo) IsInstructorOf(ctx context.Context, courseID, instructorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseInstructor{}).
		Where("course_id = ? AND instructor_id = ?", courseID, instructorID).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepo) InstructorIDs(ctx context.Context, courseID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.CourseInstructor{}).
		Where("course_id = ?", courseID).
		Pluck("instructor_id", &ids).Error
	return ids, err
}
