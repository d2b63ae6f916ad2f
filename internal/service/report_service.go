package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/attendance"
	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	"github.com/Chafic123/Attendance-Backend/pkg/pdf"
)

// ReportService builds schedules and printable attendance reports. PDF
// methods return the document bytes and a suggested filename.
type ReportService interface {
	CourseAttendancePDF(ctx context.Context, actor Actor, courseID string) ([]byte, string, error)
	StudentAttendancePDF(ctx context.Context, studentID string) ([]byte, string, error)
	StudentCourseAttendancePDF(ctx context.Context, actor Actor, studentID, courseID string) ([]byte, string, error)

	StudentSchedule(ctx context.Context, actor Actor) ([]dto.ScheduleEntry, error)
	StudentSchedulePDF(ctx context.Context, actor Actor) ([]byte, string, error)
	InstructorSchedule(ctx context.Context, actor Actor) ([]dto.ScheduleEntry, error)
	InstructorSchedulePDF(ctx context.Context, actor Actor) ([]byte, string, error)

	// StudentScheduleICS and InstructorScheduleICS export every session of
	// the caller's courses as an iCalendar feed.
	StudentScheduleICS(ctx context.Context, actor Actor) ([]byte, string, error)
	InstructorScheduleICS(ctx context.Context, actor Actor) ([]byte, string, error)
}

type reportService struct {
	repo     *repository.Repository
	renderer *pdf.Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a ReportService.
func NewReportService(repo *repository.Repository, renderer *pdf.Renderer, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, renderer: renderer, logger: logger, now: time.Now}
}

// weekLetters is indexed by time.Weekday.
const weekLetters = "UMTWRFS"

var dayNames = map[byte]string{
	'U': "Sunday", 'M': "Monday", 'T': "Tuesday", 'W': "Wednesday",
	'R': "Thursday", 'F': "Friday", 'S': "Saturday",
}

// ────────────────────── attendance reports ──────────────────────

func (s *reportService) CourseAttendancePDF(ctx context.Context, actor Actor, courseID string) ([]byte, string, error) {
	course, err := loadCourse(ctx, s.repo, s.logger, courseID)
	if err != nil {
		return nil, "", err
	}
	if err := checkTeaches(ctx, s.repo, actor, courseID); err != nil {
		return nil, "", err
	}

	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID, false)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}
	flags, err := courseFlags(ctx, s.repo, courseID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	doc := &pdf.Document{
		Title: "Course Attendance Report",
		Info: []pdf.Field{
			{Label: "Course", Value: fmt.Sprintf("%s-%s %s", course.Code, course.Section, course.Name)},
			{Label: "Schedule", Value: scheduleLine(course)},
			{Label: "Instructors", Value: strings.Join(instructorNames(course), ", ")},
		},
		Columns: []pdf.Column{
			{Header: "Student No.", Weight: 2},
			{Header: "Name", Weight: 4},
			{Header: "Absent", Weight: 1.2, Align: "C"},
			{Header: "Absence %", Weight: 1.5, Align: "R"},
			{Header: "Status", Weight: 1.5, Align: "C"},
		},
		EmptyText:   "No students enrolled",
		GeneratedAt: s.now(),
	}

	pcts := make([]float64, 0, len(enrollments))
	atRisk := 0
	for _, e := range enrollments {
		if e.Student == nil {
			continue
		}
		summary := attendance.Summarize(flags[e.StudentID])
		pcts = append(pcts, summary.AbsencePercentage)
		if summary.Status == attendance.StatusAtRisk {
			atRisk++
		}
		doc.Rows = append(doc.Rows, []string{
			e.Student.StudentNumber,
			e.Student.User.FullName(),
			fmt.Sprintf("%d", summary.Absent),
			percent(summary.AbsencePercentage),
			string(summary.Status),
		})
	}
	doc.Summary = []pdf.Field{
		{Label: "Students", Value: fmt.Sprintf("%d", len(pcts))},
		{Label: "At risk", Value: fmt.Sprintf("%d", atRisk)},
		{Label: "Average absence", Value: percent(attendance.Average(pcts))},
	}

	return s.render(doc, fmt.Sprintf("attendance_%s-%s.pdf", course.Code, course.Section))
}

func (s *reportService) StudentAttendancePDF(ctx context.Context, studentID string) ([]byte, string, error) {
	student, err := loadStudent(ctx, s.repo, s.logger, studentID)
	if err != nil {
		return nil, "", err
	}

	enrollments, err := s.repo.Enrollment.ListActiveByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, "", err
	}
	rows, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, "", err
	}
	flags := make(map[string][]*bool)
	for _, r := range rows {
		if r.Session != nil {
			flags[r.Session.CourseID] = append(flags[r.Session.CourseID], r.IsPresent)
		}
	}

	doc := &pdf.Document{
		Title: "Student Attendance Report",
		Info:  studentInfo(student),
		Columns: []pdf.Column{
			{Header: "Course", Weight: 2},
			{Header: "Name", Weight: 4},
			{Header: "Absent", Weight: 1.2, Align: "C"},
			{Header: "Absence %", Weight: 1.5, Align: "R"},
			{Header: "Status", Weight: 1.5, Align: "C"},
		},
		EmptyText:   "Not enrolled in any course",
		GeneratedAt: s.now(),
	}

	pcts := make([]float64, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		summary := attendance.Summarize(flags[e.CourseID])
		pcts = append(pcts, summary.AbsencePercentage)
		doc.Rows = append(doc.Rows, []string{
			e.Course.Code + "-" + e.Course.Section,
			e.Course.Name,
			fmt.Sprintf("%d", summary.Absent),
			percent(summary.AbsencePercentage),
			string(summary.Status),
		})
	}
	avg := attendance.Average(pcts)
	doc.Summary = []pdf.Field{
		{Label: "Average absence", Value: percent(avg)},
		{Label: "Average attendance", Value: percent(attendance.Round2(100 - avg))},
	}

	return s.render(doc, fmt.Sprintf("attendance_%s.pdf", student.StudentNumber))
}

func (s *reportService) StudentCourseAttendancePDF(ctx context.Context, actor Actor, studentID, courseID string) ([]byte, string, error) {
	report, err := attendanceReport(ctx, s.repo, s.logger, actor, courseID, studentID)
	if err != nil {
		return nil, "", err
	}

	c := report.Course
	info := []pdf.Field{
		{Label: "Student", Value: report.Student.User.FirstName + " " + report.Student.User.LastName},
		{Label: "Student No.", Value: report.Student.StudentNumber},
		{Label: "Course", Value: fmt.Sprintf("%s-%s %s", c.Code, c.Section, c.Name)},
	}
	doc := &pdf.Document{
		Title: "Course Attendance Record",
		Info:  info,
		Columns: []pdf.Column{
			{Header: "Date", Weight: 2},
			{Header: "Day", Weight: 2},
			{Header: "Status", Weight: 2, Align: "C"},
		},
		EmptyText:   "No sessions recorded",
		GeneratedAt: s.now(),
	}
	for _, r := range report.Rows {
		day := ""
		if t, err := time.Parse(dateLayout, r.Date); err == nil {
			day = t.Weekday().String()
		}
		doc.Rows = append(doc.Rows, []string{r.Date, day, r.Status})
	}
	doc.Summary = []pdf.Field{
		{Label: "Present", Value: fmt.Sprintf("%d", report.Summary.Present)},
		{Label: "Absent", Value: fmt.Sprintf("%d", report.Summary.Absent)},
		{Label: "Absence", Value: percent(report.Summary.AbsencePercentage)},
		{Label: "Status", Value: string(report.Summary.Status)},
	}

	return s.render(doc, fmt.Sprintf("attendance_%s_%s-%s.pdf", report.Student.StudentNumber, c.Code, c.Section))
}

// ────────────────────── schedules ──────────────────────

func (s *reportService) StudentSchedule(ctx context.Context, actor Actor) ([]dto.ScheduleEntry, error) {
	courses, err := s.studentCourses(ctx, actor.ProfileID)
	if err != nil {
		return nil, err
	}
	return buildSchedule(courses), nil
}

// studentCourses are the courses of the student's active enrollments.
func (s *reportService) studentCourses(ctx context.Context, studentID string) ([]model.Course, error) {
	enrollments, err := s.repo.Enrollment.ListActiveByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	courses := make([]model.Course, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course != nil {
			courses = append(courses, *e.Course)
		}
	}
	return courses, nil
}

func (s *reportService) StudentSchedulePDF(ctx context.Context, actor Actor) ([]byte, string, error) {
	student, err := loadStudent(ctx, s.repo, s.logger, actor.ProfileID)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.StudentSchedule(ctx, actor)
	if err != nil {
		return nil, "", err
	}
	return s.render(s.scheduleDocument("Student Schedule", studentInfo(student), entries),
		fmt.Sprintf("schedule_%s.pdf", student.StudentNumber))
}

func (s *reportService) InstructorSchedule(ctx context.Context, actor Actor) ([]dto.ScheduleEntry, error) {
	courses, err := s.repo.Course.ListByInstructor(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list instructor courses failed", zap.String("instructor_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return buildSchedule(courses), nil
}

func (s *reportService) InstructorSchedulePDF(ctx context.Context, actor Actor) ([]byte, string, error) {
	inst, err := s.repo.Instructor.GetByID(ctx, actor.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInstructorNotFound
		}
		return nil, "", err
	}
	entries, err := s.InstructorSchedule(ctx, actor)
	if err != nil {
		return nil, "", err
	}
	info := []pdf.Field{{Label: "Instructor", Value: inst.User.FullName()}}
	if inst.Department != nil {
		info = append(info, pdf.Field{Label: "Department", Value: inst.Department.Name})
	}
	return s.render(s.scheduleDocument("Instructor Schedule", info, entries), "schedule.pdf")
}

func (s *reportService) scheduleDocument(title string, info []pdf.Field, entries []dto.ScheduleEntry) *pdf.Document {
	doc := &pdf.Document{
		Title: title,
		Info:  info,
		Columns: []pdf.Column{
			{Header: "Course", Weight: 1.6},
			{Header: "Name", Weight: 3},
			{Header: "Days", Weight: 3},
			{Header: "Time", Weight: 1.8, Align: "C"},
			{Header: "Room", Weight: 1.2, Align: "C"},
			{Header: "Credits", Weight: 1, Align: "C"},
		},
		EmptyText:   "No courses",
		GeneratedAt: s.now(),
	}
	credits := 0
	for _, e := range entries {
		credits += e.Credits
		doc.Rows = append(doc.Rows, []string{
			e.Code + "-" + e.Section,
			e.Name,
			strings.Join(e.Days, ", "),
			e.StartTime + "-" + e.EndTime,
			e.Room,
			fmt.Sprintf("%d", e.Credits),
		})
	}
	doc.Summary = []pdf.Field{
		{Label: "Courses", Value: fmt.Sprintf("%d", len(entries))},
		{Label: "Credits", Value: fmt.Sprintf("%d", credits)},
	}
	return doc
}

func (s *reportService) render(doc *pdf.Document, filename string) ([]byte, string, error) {
	body, err := s.renderer.Render(doc)
	if err != nil {
		s.logger.Error("render pdf failed", zap.String("title", doc.Title), zap.Error(err))
		return nil, "", err
	}
	return body, filename, nil
}

// ── helpers ──

// buildSchedule orders courses by their first meeting day, then start time.
func buildSchedule(courses []model.Course) []dto.ScheduleEntry {
	entries := make([]dto.ScheduleEntry, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		days := make([]string, 0, len(c.DayOfWeek))
		for j := 0; j < len(c.DayOfWeek); j++ {
			if name, ok := dayNames[c.DayOfWeek[j]]; ok {
				days = append(days, name)
			}
		}
		entries = append(entries, dto.ScheduleEntry{
			CourseID:    c.CourseID,
			Code:        c.Code,
			Section:     c.Section,
			Name:        c.Name,
			DayOfWeek:   c.DayOfWeek,
			Days:        days,
			StartTime:   clockTime(c.StartTime),
			EndTime:     clockTime(c.EndTime),
			Room:        c.Room,
			Credits:     c.Credits,
			Instructors: instructorNames(c),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := firstDay(entries[i].DayOfWeek), firstDay(entries[j].DayOfWeek)
		if a != b {
			return a < b
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries
}

// firstDay is the earliest weekday index in a pattern, 7 when empty.
func firstDay(pattern string) int {
	first := 7
	for i := 0; i < len(pattern); i++ {
		if idx := strings.IndexByte(weekLetters, pattern[i]); idx >= 0 && idx < first {
			first = idx
		}
	}
	return first
}

func scheduleLine(c *model.Course) string {
	return fmt.Sprintf("%s %s-%s, room %s", c.DayOfWeek, clockTime(c.StartTime), clockTime(c.EndTime), c.Room)
}

func studentInfo(st *model.Student) []pdf.Field {
	info := []pdf.Field{
		{Label: "Student", Value: st.User.FullName()},
		{Label: "Student No.", Value: st.StudentNumber},
	}
	if st.Major != "" {
		info = append(info, pdf.Field{Label: "Major", Value: st.Major})
	}
	return info
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
