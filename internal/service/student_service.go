package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/attendance"
	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// StudentService manages student accounts and their attendance views.
type StudentService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.StudentResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.StudentResponse, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error

	// Courses lists the student's active courses with attendance standing.
	Courses(ctx context.Context, studentID string) ([]dto.StudentCourseResponse, error)
	// Calendar labels each session of an actively enrolled course.
	Calendar(ctx context.Context, studentID, courseID string) (*dto.StudentCalendarResponse, error)
	// AttendanceReport is refused once the student has dropped the course.
	AttendanceReport(ctx context.Context, actor Actor, courseID, studentID string) (*dto.AttendanceReportResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*dto.StudentResponse, error)

	ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportResult, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStudentService creates a StudentService.
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── CRUD ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.StudentResponse, int64, error) {
	students, total, err := s.repo.Student.List(ctx, repository.ListParams{
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
		Search: req.Search,
	})
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, total, nil
}

func (s *studentService) Get(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if err := checkEmailFree(ctx, s.repo, req.Email, ""); err != nil {
		return nil, err
	}
	if err := s.checkNumberFree(ctx, req.StudentNumber, ""); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, s.repo, req.DepartmentID); err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		password = req.StudentNumber
	}

	var student *model.Student
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := newUser(ctx, tx, req.FirstName, req.LastName, req.Email, password, model.RoleStudent)
		if err != nil {
			return err
		}
		student = &model.Student{
			UserID:        user.UserID,
			StudentNumber: req.StudentNumber,
			DepartmentID:  req.DepartmentID,
			Major:         req.Major,
			PhoneNumber:   req.PhoneNumber,
		}
		return tx.Student.Create(ctx, student)
	})
	if err != nil {
		s.logger.Error("create student failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, student.StudentID)
}

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := checkEmailFree(ctx, s.repo, *req.Email, student.UserID); err != nil {
			return nil, err
		}
	}
	if req.StudentNumber != nil {
		if err := s.checkNumberFree(ctx, *req.StudentNumber, id); err != nil {
			return nil, err
		}
		student.StudentNumber = *req.StudentNumber
	}
	if req.DepartmentID != nil {
		if err := checkDepartment(ctx, s.repo, req.DepartmentID); err != nil {
			return nil, err
		}
		student.DepartmentID = req.DepartmentID
	}
	if req.Major != nil {
		student.Major = *req.Major
	}
	if req.PhoneNumber != nil {
		student.PhoneNumber = req.PhoneNumber
	}
	applyNames(student.User, req.FirstName, req.LastName, req.Email)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, student.User); err != nil {
			return err
		}
		return tx.Student.Update(ctx, student)
	})
	if err != nil {
		s.logger.Error("update student failed", zap.String("student_id", id), zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the student's user; the profile, enrollments and
// attendance cascade.
func (s *studentService) Delete(ctx context.Context, id string) error {
	student, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, student.UserID); err != nil {
		s.logger.Error("delete student failed", zap.String("student_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// ────────────────────── attendance views ──────────────────────

func (s *studentService) Courses(ctx context.Context, studentID string) ([]dto.StudentCourseResponse, error) {
	if _, err := s.load(ctx, studentID); err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListActiveByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	rows, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	flags := make(map[string][]*bool)
	for _, r := range rows {
		if r.Session != nil {
			flags[r.Session.CourseID] = append(flags[r.Session.CourseID], r.IsPresent)
		}
	}

	result := make([]dto.StudentCourseResponse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		summary := attendance.Summarize(flags[e.CourseID])
		result = append(result, dto.StudentCourseResponse{
			Course:            *toCourseResponse(e.Course),
			EnrollmentDate:    formatDate(e.EnrollmentDate),
			AbsencePercentage: summary.AbsencePercentage,
			Status:            string(summary.Status),
		})
	}
	return result, nil
}

func (s *studentService) Calendar(ctx context.Context, studentID, courseID string) (*dto.StudentCalendarResponse, error) {
	if _, err := loadCourse(ctx, s.repo, s.logger, courseID); err != nil {
		return nil, err
	}
	enrollment, err := s.repo.Enrollment.Get(ctx, courseID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentInactive
		}
		return nil, err
	}
	if !enrollment.IsActive() {
		return nil, ErrEnrollmentInactive
	}

	sessions, err := s.repo.Session.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Attendance.ListByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	bySession := make(map[string]*model.Attendance, len(rows))
	for i := range rows {
		bySession[rows[i].CourseSessionID] = &rows[i]
	}

	day := today(s.now)
	resp := &dto.StudentCalendarResponse{
		CourseID:  courseID,
		StudentID: studentID,
		Entries:   make([]dto.StudentCalendarEntry, 0, len(sessions)),
	}
	for _, sess := range sessions {
		entry := dto.StudentCalendarEntry{
			SessionID: sess.CourseSessionID,
			Date:      formatDate(sess.Date),
			DayName:   sess.Date.Weekday().String(),
		}
		var flag *bool
		if row, ok := bySession[sess.CourseSessionID]; ok {
			entry.AttendanceID = row.AttendanceID
			flag = row.IsPresent
		}
		entry.Status = attendance.SessionState(sess.Date, day, flag)
		resp.Entries = append(resp.Entries, entry)
	}
	return resp, nil
}

func (s *studentService) AttendanceReport(ctx context.Context, actor Actor, courseID, studentID string) (*dto.AttendanceReportResponse, error) {
	return attendanceReport(ctx, s.repo, s.logger, actor, courseID, studentID)
}

func (s *studentService) UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*dto.StudentResponse, error) {
	student, err := s.load(ctx, actor.ProfileID)
	if err != nil {
		return nil, err
	}

	applyNames(student.User, req.FirstName, req.LastName, nil)
	if req.PhoneNumber != nil {
		student.PhoneNumber = req.PhoneNumber
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, student.User); err != nil {
			return err
		}
		return tx.Student.Update(ctx, student)
	})
	if err != nil {
		s.logger.Error("update student profile failed", zap.String("student_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, actor.ProfileID)
}

// ── helpers ──

func (s *studentService) load(ctx context.Context, id string) (*model.Student, error) {
	return loadStudent(ctx, s.repo, s.logger, id)
}

func loadStudent(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Student, error) {
	student, err := repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		logger.Error("load student failed", zap.String("student_id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) checkNumberFree(ctx context.Context, number, excludeID string) error {
	taken, err := s.repo.Student.NumberTaken(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrStudentNumberTaken
	}
	return nil
}

// attendanceReport lists one student's session outcomes in a course. Dropped
// enrollments are refused.
func attendanceReport(ctx context.Context, repo *repository.Repository, logger *zap.Logger, actor Actor, courseID, studentID string) (*dto.AttendanceReportResponse, error) {
	course, err := loadCourse(ctx, repo, logger, courseID)
	if err != nil {
		return nil, err
	}
	if err := checkTeaches(ctx, repo, actor, courseID); err != nil {
		return nil, err
	}
	student, err := loadStudent(ctx, repo, logger, studentID)
	if err != nil {
		return nil, err
	}

	enrollment, err := repo.Enrollment.Get(ctx, courseID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotEnrolled
		}
		return nil, err
	}
	if enrollment.Status == model.EnrollmentDropped {
		return nil, ErrEnrollmentDropped
	}

	rows, err := repo.Attendance.ListByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		logger.Error("list attendance failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.AttendanceReportResponse{
		Student: *toStudentResponse(student),
		Course:  *toCourseResponse(course),
		Rows:    make([]dto.AttendanceReportRow, 0, len(rows)),
	}
	flags := make([]*bool, 0, len(rows))
	for _, r := range rows {
		flags = append(flags, r.IsPresent)
		row := dto.AttendanceReportRow{AttendanceID: r.AttendanceID, Status: attendance.Label(r.IsPresent)}
		if r.Session != nil {
			row.Date = formatDate(r.Session.Date)
		}
		resp.Rows = append(resp.Rows, row)
	}
	resp.Summary = attendance.Summarize(flags)
	return resp, nil
}
