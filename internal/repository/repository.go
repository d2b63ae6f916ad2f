package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository behind one handle.
type Repository struct {
	db *gorm.DB

	User              UserRepository
	Department        DepartmentRepository
	Admin             AdminRepository
	Instructor        InstructorRepository
	Student           StudentRepository
	Term              TermRepository
	Course            CourseRepository
	Session           CourseSessionRepository
	Enrollment        EnrollmentRepository
	Attendance        AttendanceRepository
	Notification      NotificationRepository
	AttendanceRequest AttendanceRequestRepository
}

// NewRepository creates the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                db,
		User:              NewUserRepo(db),
		Department:        NewDepartmentRepo(db),
		Admin:             NewAdminRepo(db),
		Instructor:        NewInstructorRepo(db),
		Student:           NewStudentRepo(db),
		Term:              NewTermRepo(db),
		Course:            NewCourseRepo(db),
		Session:           NewCourseSessionRepo(db),
		Enrollment:        NewEnrollmentRepo(db),
		Attendance:        NewAttendanceRepo(db),
		Notification:      NewNotificationRepo(db),
		AttendanceRequest: NewAttendanceRequestRepo(db),
	}
}

// WithTx returns an aggregate whose repositories run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside a database transaction. An aggregate built
// without a database (as in unit tests) runs fn directly on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ListParams pages and filters a list query.
type ListParams struct {
	Offset int
	Limit  int
	Search string
}

func (p ListParams) like() string {
	return "%" + p.Search + "%"
}
