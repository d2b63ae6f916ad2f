package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/attendance"
	"github.com/Chafic123/Attendance-Backend/internal/calendar"
	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
)

// attendanceHour is the wall-clock hour stamped on attendance that is
// backfilled as present when a student joins a course mid-term.
const attendanceHour = 8

// CourseService manages courses, their sessions and rosters.
type CourseService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.CourseResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.CourseResponse, error)
	Create(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error)
	// Update replaces the course. When the weekday pattern changes while a
	// term is active, existing sessions are moved onto the new dates.
	Update(ctx context.Context, id string, req *dto.CourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error

	Calendar(ctx context.Context, id string) (*dto.CourseCalendarResponse, error)
	Students(ctx context.Context, actor Actor, id string) ([]dto.CourseStudentResponse, error)
	NotEnrolledStudents(ctx context.Context, id string) ([]dto.StudentResponse, error)
	EnrollStudents(ctx context.Context, id string, req *dto.EnrollStudentsRequest) (*dto.EnrollStudentsResult, error)
	EnrollInstructors(ctx context.Context, id string, req *dto.EnrollInstructorsRequest) (*dto.EnrollInstructorsResult, error)
	DropStudent(ctx context.Context, courseID, studentID string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCourseService creates a CourseService.
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── read ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.CourseResponse, int64, error) {
	courses, total, err := s.repo.Course.List(ctx, repository.ListParams{
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
		Search: req.Search,
	})
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, total, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := loadCourse(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	pattern := calendar.NormalizePattern(req.DayOfWeek)
	if err := s.validate(ctx, req, pattern, ""); err != nil {
		return nil, err
	}

	course := &model.Course{
		Code:      req.Code,
		Section:   req.Section,
		Name:      req.Name,
		DayOfWeek: pattern,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Credits:   req.Credits,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Course.Create(ctx, course); err != nil {
			return err
		}
		if err := tx.Course.AttachInstructor(ctx, course.CourseID, req.InstructorID); err != nil {
			return err
		}

		term, err := activeTerm(ctx, tx, today(s.now))
		if err != nil || term == nil {
			return err
		}
		dates := calendar.MeetingDates(pattern, calendar.Window{Start: term.StartDate, End: term.EndDate})
		return tx.Session.BatchCreate(ctx, newSessions(course.CourseID, dates))
	})
	if err != nil {
		s.logger.Error("create course failed", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("course created",
		zap.String("course_id", course.CourseID),
		zap.String("code", course.Code),
		zap.String("section", course.Section))
	return s.Get(ctx, course.CourseID)
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	course, err := loadCourse(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != course.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	pattern := calendar.NormalizePattern(req.DayOfWeek)
	if err := s.validate(ctx, req, pattern, id); err != nil {
		return nil, err
	}

	oldPattern := course.DayOfWeek
	course.Code = req.Code
	course.Section = req.Section
	course.Name = req.Name
	course.DayOfWeek = pattern
	course.StartTime = req.StartTime
	course.EndTime = req.EndTime
	course.Room = req.Room
	course.Credits = req.Credits

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Course.Update(ctx, course); err != nil {
			return err
		}
		if err := tx.Course.SyncInstructor(ctx, id, req.InstructorID); err != nil {
			return err
		}
		if oldPattern == pattern {
			return nil
		}
		return s.regenerate(ctx, tx, id, oldPattern, pattern)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("update course failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, id)
}

// regenerate moves the course's sessions onto the dates of the new pattern
// within the active term. Session identities, and the attendance attached to
// them, are kept for the first min(existing, new) slots.
func (s *courseService) regenerate(ctx context.Context, tx *repository.Repository, courseID, oldPattern, newPattern string) error {
	day := today(s.now)
	term, err := activeTerm(ctx, tx, day)
	if err != nil {
		return err
	}
	var window *calendar.Window
	if term != nil {
		window = &calendar.Window{Start: term.StartDate, End: term.EndDate}
	}

	existing, err := tx.Session.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	plan, ok := calendar.Regenerate(oldPattern, newPattern, window, day, len(existing))
	if !ok {
		return nil
	}

	for _, u := range plan.Updates {
		if err := tx.Session.UpdateDate(ctx, existing[u.Index].CourseSessionID, u.Date); err != nil {
			return err
		}
	}
	if err := tx.Session.BatchCreate(ctx, newSessions(courseID, plan.Creates)); err != nil {
		return err
	}

	s.logger.Info("course sessions regenerated",
		zap.String("course_id", courseID),
		zap.String("from", oldPattern),
		zap.String("to", newPattern),
		zap.Int("updated", len(plan.Updates)),
		zap.Int("created", len(plan.Creates)),
		zap.Int("stale", plan.Stale))
	return nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("delete course failed", zap.String("course_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Calendar ──────────────────────

func (s *courseService) Calendar(ctx context.Context, id string) (*dto.CourseCalendarResponse, error) {
	if _, err := loadCourse(ctx, s.repo, s.logger, id); err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session.ListByCourse(ctx, id)
	if err != nil {
		s.logger.Error("list sessions failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	day := today(s.now)
	resp := &dto.CourseCalendarResponse{
		CourseID:      id,
		Sessions:      make([]dto.CalendarSession, 0, len(sessions)),
		TotalSessions: len(sessions),
		CurrentDate:   formatDate(day),
	}
	for _, sess := range sessions {
		current := calendar.Date(sess.Date).Equal(day)
		if current {
			resp.HasCurrentDay = true
		}
		resp.Sessions = append(resp.Sessions, dto.CalendarSession{
			SessionID:    sess.CourseSessionID,
			Date:         formatDate(sess.Date),
			DayName:      sess.Date.Weekday().String(),
			IsCurrentDay: current,
		})
	}
	return resp, nil
}

// ────────────────────── roster ──────────────────────

func (s *courseService) Students(ctx context.Context, actor Actor, id string) ([]dto.CourseStudentResponse, error) {
	if _, err := loadCourse(ctx, s.repo, s.logger, id); err != nil {
		return nil, err
	}
	if err := checkTeaches(ctx, s.repo, actor, id); err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, id, false)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	flags, err := courseFlags(ctx, s.repo, id)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseStudentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Student == nil {
			continue
		}
		summary := attendance.Summarize(flags[e.StudentID])
		row := dto.CourseStudentResponse{
			StudentID:         e.StudentID,
			StudentNumber:     e.Student.StudentNumber,
			EnrollmentStatus:  e.Status,
			AbsencePercentage: summary.AbsencePercentage,
			Status:            string(summary.Status),
		}
		if u := e.Student.User; u != nil {
			row.FirstName, row.LastName, row.Email = u.FirstName, u.LastName, u.Email
		}
		result = append(result, row)
	}
	return result, nil
}

func (s *courseService) NotEnrolledStudents(ctx context.Context, id string) ([]dto.StudentResponse, error) {
	if _, err := loadCourse(ctx, s.repo, s.logger, id); err != nil {
		return nil, err
	}

	students, err := s.repo.Student.ListNotEnrolled(ctx, id)
	if err != nil {
		s.logger.Error("list not enrolled students failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, nil
}

// EnrollStudents enrolls every student and backfills attendance for all
// existing sessions: sessions up to today are recorded present, later ones
// are left unrecorded. Individual write failures are logged and counted
// without aborting the rest.
func (s *courseService) EnrollStudents(ctx context.Context, id string, req *dto.EnrollStudentsRequest) (*dto.EnrollStudentsResult, error) {
	if _, err := loadCourse(ctx, s.repo, s.logger, id); err != nil {
		return nil, err
	}

	studentIDs := dedupe(req.StudentIDs)
	for _, sid := range studentIDs {
		if _, err := s.repo.Student.GetByID(ctx, sid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
	}

	sessions, err := s.repo.Session.ListByCourse(ctx, id)
	if err != nil {
		s.logger.Error("list sessions failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	day := today(s.now)
	result := &dto.EnrollStudentsResult{}
	for _, sid := range studentIDs {
		err := s.repo.Enrollment.Upsert(ctx, &model.Enrollment{
			CourseID:       id,
			StudentID:      sid,
			Status:         model.EnrollmentActive,
			EnrollmentDate: day,
		})
		if err != nil {
			s.logger.Error("enroll student failed",
				zap.String("course_id", id), zap.String("student_id", sid), zap.Error(err))
			result.Failed++
			continue
		}
		result.Enrolled++

		for _, sess := range sessions {
			row := backfillAttendance(sess, sid, day)
			if err := s.repo.Attendance.Create(ctx, row); err != nil {
				s.logger.Error("create attendance failed",
					zap.String("course_session_id", sess.CourseSessionID),
					zap.String("student_id", sid),
					zap.Error(err))
				result.Failed++
				continue
			}
			result.AttendanceCreated++
		}
	}

	s.logger.Info("students enrolled",
		zap.String("course_id", id),
		zap.Int("enrolled", result.Enrolled),
		zap.Int("attendance_created", result.AttendanceCreated),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *courseService) EnrollInstructors(ctx context.Context, id string, req *dto.EnrollInstructorsRequest) (*dto.EnrollInstructorsResult, error) {
	if _, err := loadCourse(ctx, s.repo, s.logger, id); err != nil {
		return nil, err
	}

	ids := dedupe(req.InstructorIDs)
	found, err := s.repo.Instructor.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, ErrInstructorNotFound
	}

	result := &dto.EnrollInstructorsResult{}
	for _, iid := range ids {
		attached, err := s.repo.Course.IsInstructorOf(ctx, id, iid)
		if err != nil {
			return nil, err
		}
		if attached {
			continue
		}
		if err := s.repo.Course.AttachInstructor(ctx, id, iid); err != nil {
			s.logger.Error("attach instructor failed",
				zap.String("course_id", id), zap.String("instructor_id", iid), zap.Error(err))
			return nil, err
		}
		result.Attached++
	}
	return result, nil
}

func (s *courseService) DropStudent(ctx context.Context, courseID, studentID string) error {
	if _, err := loadCourse(ctx, s.repo, s.logger, courseID); err != nil {
		return err
	}
	if err := s.repo.Enrollment.SetStatus(ctx, courseID, studentID, model.EnrollmentDropped); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotEnrolled
		}
		s.logger.Error("drop student failed",
			zap.String("course_id", courseID), zap.String("student_id", studentID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── validation ──────────────────────

// validate checks times, uniqueness, the instructor and the room. excludeID
// is the course being edited.
func (s *courseService) validate(ctx context.Context, req *dto.CourseRequest, pattern, excludeID string) error {
	if !calendar.ValidPattern(pattern) {
		return fieldError("day_of_week", "must be a combination of the letters U M T W R F S")
	}
	if req.EndTime <= req.StartTime {
		return fieldError("end_time", "must be after start_time")
	}

	taken, err := s.repo.Course.CodeSectionTaken(ctx, req.Code, req.Section, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCourseCodeTaken
	}

	if _, err := s.repo.Instructor.GetByID(ctx, req.InstructorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}

	overlaps, err := s.repo.Course.ListRoomOverlaps(ctx, req.Room, req.StartTime, req.EndTime, excludeID)
	if err != nil {
		return err
	}
	for i := range overlaps {
		if sharesWeekday(overlaps[i].DayOfWeek, pattern) {
			return &RoomConflictError{With: *toCourseResponse(&overlaps[i])}
		}
	}
	return nil
}

// ── shared helpers ──

func sharesWeekday(a, b string) bool {
	for i := 0; i < len(b); i++ {
		for j := 0; j < len(a); j++ {
			if a[j] == b[i] {
				return true
			}
		}
	}
	return false
}

func newSessions(courseID string, dates []time.Time) []model.CourseSession {
	sessions := make([]model.CourseSession, 0, len(dates))
	for _, d := range dates {
		sessions = append(sessions, model.CourseSession{CourseID: courseID, Date: d})
	}
	return sessions
}

func backfillAttendance(sess model.CourseSession, studentID string, day time.Time) *model.Attendance {
	row := &model.Attendance{
		CourseSessionID: sess.CourseSessionID,
		StudentID:       studentID,
	}
	date := calendar.Date(sess.Date)
	if !date.After(day) {
		present := true
		at := date.Add(attendanceHour * time.Hour)
		row.IsPresent = &present
		row.AttendedAt = &at
	}
	return row
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func loadCourse(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Course, error) {
	course, err := repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		logger.Error("load course failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// activeTerm returns the term containing day, or nil when there is none.
func activeTerm(ctx context.Context, repo *repository.Repository, day time.Time) (*model.Term, error) {
	term, err := repo.Term.GetActiveAt(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return term, nil
}

// checkTeaches restricts instructors to their own courses; admins pass.
func checkTeaches(ctx context.Context, repo *repository.Repository, actor Actor, courseID string) error {
	if !actor.IsInstructor() {
		return nil
	}
	ok, err := repo.Course.IsInstructorOf(ctx, courseID, actor.ProfileID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotCourseInstructor
	}
	return nil
}

// courseFlags groups the course's presence flags by student.
func courseFlags(ctx context.Context, repo *repository.Repository, courseID string) (map[string][]*bool, error) {
	rows, err := repo.Attendance.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	flags := make(map[string][]*bool)
	for _, r := range rows {
		flags[r.StudentID] = append(flags[r.StudentID], r.IsPresent)
	}
	return flags, nil
}
