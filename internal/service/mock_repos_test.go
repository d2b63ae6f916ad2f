package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/calendar"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
)

// memStore is an in-memory database shared by the mock repositories so
// preloads across tables behave like the gorm implementations.
type memStore struct {
	seq int

	users         map[string]*model.User
	departments   map[string]*model.Department
	admins        map[string]*model.Admin
	instructors   map[string]*model.Instructor
	students      map[string]*model.Student
	terms         map[string]*model.Term
	courses       map[string]*model.Course
	links         map[string][]string // courseID → instructorIDs
	sessions      map[string]*model.CourseSession
	sessionSeq    map[string]int
	enrollments   map[string]*model.Enrollment // "courseID:studentID"
	attendances   map[string]*model.Attendance
	notifications map[string]*model.Notification
	requests      map[string]*model.AttendanceRequest

	// upsertErr fails Enrollment.Upsert for the listed student ids.
	upsertErr map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[string]*model.User),
		departments:   make(map[string]*model.Department),
		admins:        make(map[string]*model.Admin),
		instructors:   make(map[string]*model.Instructor),
		students:      make(map[string]*model.Student),
		terms:         make(map[string]*model.Term),
		courses:       make(map[string]*model.Course),
		links:         make(map[string][]string),
		sessions:      make(map[string]*model.CourseSession),
		sessionSeq:    make(map[string]int),
		enrollments:   make(map[string]*model.Enrollment),
		attendances:   make(map[string]*model.Attendance),
		notifications: make(map[string]*model.Notification),
		requests:      make(map[string]*model.AttendanceRequest),
		upsertErr:     make(map[string]error),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%03d", prefix, m.seq)
}

// repo builds an aggregate without a db; Transaction runs fn directly.
func (m *memStore) repo() *repository.Repository {
	return &repository.Repository{
		User:              &mockUserRepo{m},
		Department:        &mockDeptRepo{m},
		Admin:             &mockAdminRepo{m},
		Instructor:        &mockInstructorRepo{m},
		Student:           &mockStudentRepo{m},
		Term:              &mockTermRepo{m},
		Course:            &mockCourseRepo{m},
		Session:           &mockSessionRepo{m},
		Enrollment:        &mockEnrollmentRepo{m},
		Attendance:        &mockAttendanceRepo{m},
		Notification:      &mockNotificationRepo{m},
		AttendanceRequest: &mockRequestRepo{m},
	}
}

// ── preload helpers ──

func (m *memStore) loadUser(id string) *model.User {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (m *memStore) loadDept(id *string) *model.Department {
	if id == nil {
		return nil
	}
	if d, ok := m.departments[*id]; ok {
		cp := *d
		return &cp
	}
	return nil
}

func (m *memStore) loadInstructor(id string) *model.Instructor {
	i, ok := m.instructors[id]
	if !ok {
		return nil
	}
	cp := *i
	cp.User = m.loadUser(i.UserID)
	cp.Department = m.loadDept(i.DepartmentID)
	return &cp
}

func (m *memStore) loadStudent(id string) *model.Student {
	s, ok := m.students[id]
	if !ok {
		return nil
	}
	cp := *s
	cp.User = m.loadUser(s.UserID)
	cp.Department = m.loadDept(s.DepartmentID)
	return &cp
}

func (m *memStore) loadCourse(id string) *model.Course {
	c, ok := m.courses[id]
	if !ok {
		return nil
	}
	cp := *c
	cp.Instructors = nil
	for _, iid := range m.links[id] {
		if inst := m.loadInstructor(iid); inst != nil {
			cp.Instructors = append(cp.Instructors, *inst)
		}
	}
	return &cp
}

func (m *memStore) loadSession(id string) *model.CourseSession {
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}

func (m *memStore) loadAttendance(id string) *model.Attendance {
	a, ok := m.attendances[id]
	if !ok {
		return nil
	}
	cp := *a
	cp.Session = m.loadSession(a.CourseSessionID)
	return &cp
}

func (m *memStore) loadRequest(id string) *model.AttendanceRequest {
	r, ok := m.requests[id]
	if !ok {
		return nil
	}
	cp := *r
	cp.Student = m.loadStudent(r.StudentID)
	cp.Attendance = m.loadAttendance(r.AttendanceID)
	return &cp
}

// sortAttendance orders rows by session date.
func (m *memStore) sortAttendance(rows []model.Attendance) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := m.sessions[rows[i].CourseSessionID], m.sessions[rows[j].CourseSessionID]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return rows[i].StudentID < rows[j].StudentID
	})
}

func page[T any](list []T, params repository.ListParams) []T {
	if params.Offset >= len(list) {
		return []T{}
	}
	list = list[params.Offset:]
	if params.Limit > 0 && params.Limit < len(list) {
		list = list[:params.Limit]
	}
	return list
}

// ── Mock UserRepository ──

type mockUserRepo struct{ *memStore }

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = r.nextID("user")
	}
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u := r.loadUser(id); u != nil {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for id, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return r.loadUser(id), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for id, u := range r.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) Update(_ context.Context, user *model.User) error {
	u, ok := r.users[user.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FirstName, u.LastName, u.Email = user.FirstName, user.LastName, user.Email
	return nil
}

func (r *mockUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	for sid, s := range r.students {
		if s.UserID == id {
			delete(r.students, sid)
		}
	}
	for iid, i := range r.instructors {
		if i.UserID == id {
			delete(r.instructors, iid)
		}
	}
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct{ *memStore }

func (r *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d := r.loadDept(&id); d != nil {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range r.departments {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockDeptRepo) Ensure(ctx context.Context, name string) (*model.Department, error) {
	if d, err := r.GetByName(ctx, name); err == nil {
		return d, nil
	}
	d := &model.Department{DepartmentID: r.nextID("dept"), Name: name}
	r.departments[d.DepartmentID] = d
	cp := *d
	return &cp, nil
}

func (r *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	list := make([]model.Department, 0, len(r.departments))
	for _, d := range r.departments {
		list = append(list, *d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct{ *memStore }

func (r *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	if admin.AdminID == "" {
		admin.AdminID = r.nextID("admin")
	}
	cp := *admin
	r.admins[admin.AdminID] = &cp
	return nil
}

func (r *mockAdminRepo) GetByUserID(_ context.Context, userID string) (*model.Admin, error) {
	for _, a := range r.admins {
		if a.UserID == userID {
			cp := *a
			cp.User = r.loadUser(userID)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock InstructorRepository ──

type mockInstructorRepo struct{ *memStore }

func (r *mockInstructorRepo) Create(_ context.Context, inst *model.Instructor) error {
	if inst.InstructorID == "" {
		inst.InstructorID = r.nextID("inst")
	}
	cp := *inst
	cp.User, cp.Department = nil, nil
	r.instructors[inst.InstructorID] = &cp
	return nil
}

func (r *mockInstructorRepo) GetByID(_ context.Context, id string) (*model.Instructor, error) {
	if i := r.loadInstructor(id); i != nil {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInstructorRepo) GetByUserID(_ context.Context, userID string) (*model.Instructor, error) {
	for id, i := range r.instructors {
		if i.UserID == userID {
			return r.loadInstructor(id), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInstructorRepo) List(_ context.Context, params repository.ListParams) ([]model.Instructor, int64, error) {
	list := make([]model.Instructor, 0, len(r.instructors))
	for id := range r.instructors {
		list = append(list, *r.loadInstructor(id))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].InstructorID < list[j].InstructorID })
	return page(list, params), int64(len(list)), nil
}

func (r *mockInstructorRepo) ListByIDs(_ context.Context, ids []string) ([]model.Instructor, error) {
	var list []model.Instructor
	for _, id := range ids {
		if i := r.loadInstructor(id); i != nil {
			list = append(list, *i)
		}
	}
	return list, nil
}

func (r *mockInstructorRepo) Update(_ context.Context, inst *model.Instructor) error {
	i, ok := r.instructors[inst.InstructorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.DepartmentID, i.PhoneNumber, i.Image = inst.DepartmentID, inst.PhoneNumber, inst.Image
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ *memStore }

func (r *mockStudentRepo) Create(_ context.Context, st *model.Student) error {
	if st.StudentID == "" {
		st.StudentID = r.nextID("stu")
	}
	cp := *st
	cp.User, cp.Department = nil, nil
	r.students[st.StudentID] = &cp
	return nil
}

func (r *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s := r.loadStudent(id); s != nil {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) GetByUserID(_ context.Context, userID string) (*model.Student, error) {
	for id, s := range r.students {
		if s.UserID == userID {
			return r.loadStudent(id), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) NumberTaken(_ context.Context, number, excludeID string) (bool, error) {
	for id, s := range r.students {
		if id != excludeID && s.StudentNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockStudentRepo) List(_ context.Context, params repository.ListParams) ([]model.Student, int64, error) {
	list := make([]model.Student, 0, len(r.students))
	for id := range r.students {
		list = append(list, *r.loadStudent(id))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StudentNumber < list[j].StudentNumber })
	return page(list, params), int64(len(list)), nil
}

func (r *mockStudentRepo) ListNotEnrolled(_ context.Context, courseID string) ([]model.Student, error) {
	var list []model.Student
	for id := range r.students {
		if e, ok := r.enrollments[courseID+":"+id]; ok && e.IsActive() {
			continue
		}
		list = append(list, *r.loadStudent(id))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StudentNumber < list[j].StudentNumber })
	return list, nil
}

func (r *mockStudentRepo) Update(_ context.Context, st *model.Student) error {
	s, ok := r.students[st.StudentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.StudentNumber, s.DepartmentID, s.Major, s.PhoneNumber = st.StudentNumber, st.DepartmentID, st.Major, st.PhoneNumber
	return nil
}

// ── Mock TermRepository ──

type mockTermRepo struct{ *memStore }

func (r *mockTermRepo) Create(_ context.Context, term *model.Term) error {
	if term.TermID == "" {
		term.TermID = r.nextID("term")
	}
	cp := *term
	r.terms[term.TermID] = &cp
	return nil
}

func (r *mockTermRepo) GetByID(_ context.Context, id string) (*model.Term, error) {
	if t, ok := r.terms[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTermRepo) GetActiveAt(_ context.Context, day time.Time) (*model.Term, error) {
	for _, t := range r.terms {
		if (calendar.Window{Start: t.StartDate, End: t.EndDate}).Contains(day) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTermRepo) Overlapping(_ context.Context, start, end time.Time, excludeID string) ([]model.Term, error) {
	var list []model.Term
	for id, t := range r.terms {
		if id != excludeID && !t.StartDate.After(end) && !t.EndDate.Before(start) {
			list = append(list, *t)
		}
	}
	return list, nil
}

func (r *mockTermRepo) List(_ context.Context) ([]model.Term, error) {
	list := make([]model.Term, 0, len(r.terms))
	for _, t := range r.terms {
		list = append(list, *t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartDate.After(list[j].StartDate) })
	return list, nil
}

func (r *mockTermRepo) Update(_ context.Context, term *model.Term) error {
	if _, ok := r.terms[term.TermID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *term
	r.terms[term.TermID] = &cp
	return nil
}

func (r *mockTermRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.terms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.terms, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ *memStore }

func (r *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = r.nextID("course")
	}
	if course.Version == 0 {
		course.Version = 1
	}
	cp := *course
	cp.Instructors = nil
	r.courses[course.CourseID] = &cp
	return nil
}

func (r *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c := r.loadCourse(id); c != nil {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) sorted(keep func(*model.Course) bool) []model.Course {
	var list []model.Course
	for id, c := range r.courses {
		if keep(c) {
			list = append(list, *r.loadCourse(id))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Code != list[j].Code {
			return list[i].Code < list[j].Code
		}
		return list[i].Section < list[j].Section
	})
	return list
}

func (r *mockCourseRepo) List(_ context.Context, params repository.ListParams) ([]model.Course, int64, error) {
	list := r.sorted(func(*model.Course) bool { return true })
	return page(list, params), int64(len(list)), nil
}

func (r *mockCourseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	return r.sorted(func(c *model.Course) bool {
		ok, _ := r.IsInstructorOf(ctx, c.CourseID, instructorID)
		return ok
	}), nil
}

func (r *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	c, ok := r.courses[course.CourseID]
	if !ok || c.Version != course.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *course
	cp.Instructors = nil
	cp.Version = c.Version + 1
	r.courses[course.CourseID] = &cp
	course.Version = cp.Version
	return nil
}

func (r *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.courses, id)
	delete(r.links, id)
	return nil
}

func (r *mockCourseRepo) CodeSectionTaken(_ context.Context, code, section, excludeID string) (bool, error) {
	for id, c := range r.courses {
		if id != excludeID && strings.EqualFold(c.Code, code) && strings.EqualFold(c.Section, section) {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockCourseRepo) ListRoomOverlaps(_ context.Context, room, start, end, excludeID string) ([]model.Course, error) {
	return r.sorted(func(c *model.Course) bool {
		return c.CourseID != excludeID && c.Room == room && c.StartTime < end && c.EndTime > start
	}), nil
}

func (r *mockCourseRepo) SyncInstructor(_ context.Context, courseID, instructorID string) error {
	r.links[courseID] = []string{instructorID}
	return nil
}

func (r *mockCourseRepo) AttachInstructor(ctx context.Context, courseID, instructorID string) error {
	if ok, _ := r.IsInstructorOf(ctx, courseID, instructorID); ok {
		return nil
	}
	r.links[courseID] = append(r.links[courseID], instructorID)
	return nil
}

func (r *mockCourseRepo) IsInstructorOf(_ context.Context, courseID, instructorID string) (bool, error) {
	for _, id := range r.links[courseID] {
		if id == instructorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockCourseRepo) InstructorIDs(_ context.Context, courseID string) ([]string, error) {
	return append([]string(nil), r.links[courseID]...), nil
}

// ── Mock CourseSessionRepository ──

type mockSessionRepo struct{ *memStore }

func (r *mockSessionRepo) BatchCreate(_ context.Context, sessions []model.CourseSession) error {
	for i := range sessions {
		if sessions[i].CourseSessionID == "" {
			sessions[i].CourseSessionID = r.nextID("sess")
		}
		cp := sessions[i]
		r.sessions[cp.CourseSessionID] = &cp
		r.sessionSeq[cp.CourseSessionID] = r.seq
	}
	return nil
}

func (r *mockSessionRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseSession, error) {
	var list []model.CourseSession
	for _, s := range r.sessions {
		if s.CourseID == courseID {
			list = append(list, *s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return r.sessionSeq[list[i].CourseSessionID] < r.sessionSeq[list[j].CourseSessionID]
	})
	return list, nil
}

func (r *mockSessionRepo) UpdateDate(_ context.Context, id string, date time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Date = date
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct{ *memStore }

func (r *mockEnrollmentRepo) Get(_ context.Context, courseID, studentID string) (*model.Enrollment, error) {
	if e, ok := r.enrollments[courseID+":"+studentID]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockEnrollmentRepo) Upsert(_ context.Context, enrollment *model.Enrollment) error {
	if err := r.upsertErr[enrollment.StudentID]; err != nil {
		return err
	}
	cp := *enrollment
	cp.Course, cp.Student = nil, nil
	r.enrollments[enrollment.CourseID+":"+enrollment.StudentID] = &cp
	return nil
}

func (r *mockEnrollmentRepo) SetStatus(_ context.Context, courseID, studentID, status string) error {
	e, ok := r.enrollments[courseID+":"+studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	return nil
}

func (r *mockEnrollmentRepo) ListByCourse(_ context.Context, courseID string, includeDropped bool) ([]model.Enrollment, error) {
	var list []model.Enrollment
	for _, e := range r.enrollments {
		if e.CourseID != courseID || (!includeDropped && e.Status == model.EnrollmentDropped) {
			continue
		}
		cp := *e
		cp.Student = r.loadStudent(e.StudentID)
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StudentID < list[j].StudentID })
	return list, nil
}

func (r *mockEnrollmentRepo) ListActiveByStudent(_ context.Context, studentID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	for _, e := range r.enrollments {
		if e.StudentID != studentID || !e.IsActive() {
			continue
		}
		cp := *e
		cp.Course = r.loadCourse(e.CourseID)
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CourseID < list[j].CourseID })
	return list, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ *memStore }

func (r *mockAttendanceRepo) Create(_ context.Context, att *model.Attendance) error {
	for _, a := range r.attendances {
		if a.CourseSessionID == att.CourseSessionID && a.StudentID == att.StudentID {
			return nil
		}
	}
	if att.AttendanceID == "" {
		att.AttendanceID = r.nextID("att")
	}
	cp := *att
	cp.Session = nil
	r.attendances[att.AttendanceID] = &cp
	return nil
}

func (r *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if a := r.loadAttendance(id); a != nil {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAttendanceRepo) list(keep func(a *model.Attendance, s *model.CourseSession) bool) []model.Attendance {
	var rows []model.Attendance
	for id, a := range r.attendances {
		if s, ok := r.sessions[a.CourseSessionID]; ok && keep(a, s) {
			rows = append(rows, *r.loadAttendance(id))
		}
	}
	r.sortAttendance(rows)
	return rows
}

func (r *mockAttendanceRepo) ListByCourse(_ context.Context, courseID string) ([]model.Attendance, error) {
	return r.list(func(_ *model.Attendance, s *model.CourseSession) bool { return s.CourseID == courseID }), nil
}

func (r *mockAttendanceRepo) ListByStudentCourse(_ context.Context, studentID, courseID string) ([]model.Attendance, error) {
	return r.list(func(a *model.Attendance, s *model.CourseSession) bool {
		return a.StudentID == studentID && s.CourseID == courseID
	}), nil
}

func (r *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string) ([]model.Attendance, error) {
	return r.list(func(a *model.Attendance, _ *model.CourseSession) bool { return a.StudentID == studentID }), nil
}

func (r *mockAttendanceRepo) MarkPresent(_ context.Context, id string, at time.Time) error {
	a, ok := r.attendances[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	present := true
	a.IsPresent = &present
	a.AttendedAt = &at
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct{ *memStore }

func (r *mockNotificationRepo) BatchCreate(_ context.Context, notifications []model.Notification) error {
	for i := range notifications {
		if notifications[i].NotificationID == "" {
			notifications[i].NotificationID = r.nextID("note")
		}
		cp := notifications[i]
		r.notifications[cp.NotificationID] = &cp
	}
	return nil
}

func (r *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockNotificationRepo) list(role, profileID string) []model.Notification {
	var list []model.Notification
	for _, n := range r.notifications {
		if n.AddressedTo(role, profileID) {
			list = append(list, *n)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].NotificationID < list[j].NotificationID })
	return list
}

func (r *mockNotificationRepo) ListForStudent(_ context.Context, studentID string) ([]model.Notification, error) {
	return r.list(model.RoleStudent, studentID), nil
}

func (r *mockNotificationRepo) ListForInstructor(_ context.Context, instructorID string) ([]model.Notification, error) {
	return r.list(model.RoleInstructor, instructorID), nil
}

func (r *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := r.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

// ── Mock AttendanceRequestRepository ──

type mockRequestRepo struct{ *memStore }

func (r *mockRequestRepo) Create(_ context.Context, req *model.AttendanceRequest) error {
	if req.AttendanceRequestID == "" {
		req.AttendanceRequestID = r.nextID("req")
	}
	cp := *req
	cp.Student, cp.Attendance = nil, nil
	r.requests[req.AttendanceRequestID] = &cp
	return nil
}

func (r *mockRequestRepo) GetByID(_ context.Context, id string) (*model.AttendanceRequest, error) {
	if req := r.loadRequest(id); req != nil {
		return req, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRequestRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.AttendanceRequest, error) {
	courses := &mockCourseRepo{r.memStore}
	var list []model.AttendanceRequest
	for id := range r.requests {
		req := r.loadRequest(id)
		if req.Attendance == nil || req.Attendance.Session == nil {
			continue
		}
		if ok, _ := courses.IsInstructorOf(ctx, req.Attendance.Session.CourseID, instructorID); ok {
			list = append(list, *req)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AttendanceRequestID < list[j].AttendanceRequestID })
	return list, nil
}

func (r *mockRequestRepo) ListByStudent(_ context.Context, studentID string) ([]model.AttendanceRequest, error) {
	var list []model.AttendanceRequest
	for id, req := range r.requests {
		if req.StudentID == studentID {
			list = append(list, *r.loadRequest(id))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AttendanceRequestID < list[j].AttendanceRequestID })
	return list, nil
}

func (r *mockRequestRepo) HasPending(_ context.Context, attendanceID string) (bool, error) {
	for _, req := range r.requests {
		if req.AttendanceID == attendanceID && req.Status == model.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockRequestRepo) Transition(_ context.Context, id, from, to string) (bool, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

// ── fixtures ──

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func boolPtr(v bool) *bool { return &v }

func (m *memStore) seedUser(first, last, email, role string) *model.User {
	u := &model.User{
		UserID:    m.nextID("user"),
		FirstName: first,
		LastName:  last,
		Email:     email,
		Role:      role,
	}
	m.users[u.UserID] = u
	return u
}

func (m *memStore) seedInstructor(first, last string) *model.Instructor {
	u := m.seedUser(first, last, strings.ToLower(first)+"@school.edu", model.RoleInstructor)
	i := &model.Instructor{InstructorID: m.nextID("inst"), UserID: u.UserID}
	m.instructors[i.InstructorID] = i
	return i
}

func (m *memStore) seedStudent(first, last, number string) *model.Student {
	u := m.seedUser(first, last, strings.ToLower(first)+"@students.edu", model.RoleStudent)
	s := &model.Student{StudentID: m.nextID("stu"), UserID: u.UserID, StudentNumber: number}
	m.students[s.StudentID] = s
	return s
}

func (m *memStore) seedTerm(name string, start, end time.Time) *model.Term {
	t := &model.Term{TermID: m.nextID("term"), Name: name, StartDate: start, EndDate: end}
	m.terms[t.TermID] = t
	return t
}

func (m *memStore) seedCourse(code, section, pattern, start, end, room string, instructorIDs ...string) *model.Course {
	c := &model.Course{
		CourseID:  m.nextID("course"),
		Code:      code,
		Section:   section,
		Name:      code + " course",
		DayOfWeek: pattern,
		StartTime: start,
		EndTime:   end,
		Room:      room,
		Credits:   3,
	}
	c.Version = 1
	m.courses[c.CourseID] = c
	m.links[c.CourseID] = append([]string(nil), instructorIDs...)
	return c
}

func (m *memStore) seedSessions(courseID string, dates ...time.Time) []model.CourseSession {
	sessions := newSessions(courseID, dates)
	_ = (&mockSessionRepo{m}).BatchCreate(context.Background(), sessions)
	return sessions
}

func (m *memStore) seedEnrollment(courseID, studentID, status string) {
	m.enrollments[courseID+":"+studentID] = &model.Enrollment{
		CourseID:       courseID,
		StudentID:      studentID,
		Status:         status,
		EnrollmentDate: day(2025, 1, 1),
	}
}

func (m *memStore) seedAttendance(sessionID, studentID string, present *bool) *model.Attendance {
	a := &model.Attendance{AttendanceID: m.nextID("att"), CourseSessionID: sessionID, StudentID: studentID, IsPresent: present}
	m.attendances[a.AttendanceID] = a
	return a
}
