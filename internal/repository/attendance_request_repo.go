package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// AttendanceRequestRepository is data access for absence correction requests.
type AttendanceRequestRepository interface {
	Create(ctx context.Context, req *model.AttendanceRequest) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRequest, error)
	// ListByInstructor returns requests on sessions of courses the instructor teaches.
	ListByInstructor(ctx context.Context, instructorID string) ([]model.AttendanceRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AttendanceRequest, error)
	// HasPending reports whether the attendance already has a pending request.
	HasPending(ctx context.Context, attendanceID string) (bool, error)
	// Transition moves a request from one status to another and reports
	// whether the row was still in the from status.
	Transition(ctx context.Context, id, from, to string) (bool, error)
}

type attendanceRequestRepo struct {
	db *gorm.DB
}

// NewAttendanceRequestRepo creates an AttendanceRequestRepository.
func NewAttendanceRequestRepo(db *gorm.DB) AttendanceRequestRepository {
	return &attendanceRequestRepo{db: db}
}

func (r *attendanceRequestRepo) Create(ctx context.Context, req *model.AttendanceRequest) error {
	return r.db.WithContext(ctx).Omit("Student", "Attendance").Create(req).Error
}

func (r *attendanceRequestRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRequest, error) {
	var req model.AttendanceRequest
	err := r.db.WithContext(ctx).
		Preload("Student.User").
		Preload("Attendance.Session").
		Where("attendance_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *attendanceRequestRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.AttendanceRequest, error) {
	var list []model.AttendanceRequest
	err := r.db.WithContext(ctx).
		Preload("Student.User").
		Preload("Attendance.Session").
		Joins("JOIN attendances a ON a.attendance_id = attendance_requests.attendance_id").
		Joins("JOIN course_sessions cs ON cs.course_session_id = a.course_session_id").
		Joins("JOIN course_instructors ci ON ci.course_id = cs.course_id").
		Where("ci.instructor_id = ?", instructorID).
		Order("attendance_requests.created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRequestRepo) ListByStudent(ctx context.Context, studentID string) ([]model.AttendanceRequest, error) {
	var list []model.AttendanceRequest
	err := r.db.WithContext(ctx).
		Preload("Attendance.Session").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRequestRepo) HasPending(ctx context.Context, attendanceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRequest{}).
		Where("attendance_id = ? AND status = ?", attendanceID, model.RequestPending).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRequestRepo) Transition(ctx context.Context, id, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AttendanceRequest{}).
		Where("attendance_request_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": gorm.Expr("NOW()"),
		})
	return result.RowsAffected > 0, result.Error
}
