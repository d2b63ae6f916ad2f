package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
)

type requestFixture struct {
	m          *memStore
	svc        *attendanceRequestService
	instructor Actor
	student    Actor
	absence    *model.Attendance
	present    *model.Attendance
	session    model.CourseSession
}

func setupRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	m := newMemStore()
	inst := m.seedInstructor("Rana", "Haddad")
	course := m.seedCourse("CSC200", "A", "MW", "09:00", "10:15", "B101", inst.InstructorID)
	student := m.seedStudent("Alice", "Nasr", "202301")
	m.seedEnrollment(course.CourseID, student.StudentID, model.EnrollmentActive)
	sessions := m.seedSessions(course.CourseID, day(2025, 1, 6), day(2025, 1, 8))

	return &requestFixture{
		m:          m,
		svc:        &attendanceRequestService{repo: m.repo(), logger: zap.NewNop(), now: fixedNow(time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC))},
		instructor: Actor{Role: model.RoleInstructor, ProfileID: inst.InstructorID},
		student:    Actor{Role: model.RoleStudent, ProfileID: student.StudentID},
		absence:    m.seedAttendance(sessions[0].CourseSessionID, student.StudentID, boolPtr(false)),
		present:    m.seedAttendance(sessions[1].CourseSessionID, student.StudentID, boolPtr(true)),
		session:    sessions[0],
	}
}

func TestAttendanceRequestService_Request_NotifiesInstructors(t *testing.T) {
	f := setupRequestFixture(t)

	resp, err := f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{
		AttendanceID: f.absence.AttendanceID,
		Reason:       "  medical appointment ",
	})
	if err != nil {
		t.Fatalf("Request should succeed: %v", err)
	}
	if resp.Status != model.RequestPending || resp.Reason != "medical appointment" || resp.RequestDate != "2025-01-09" {
		t.Errorf("unexpected response: %+v", resp)
	}

	var notes []*model.Notification
	for _, n := range f.m.notifications {
		notes = append(notes, n)
	}
	if len(notes) != 1 {
		t.Fatalf("expected one instructor notification, got %d", len(notes))
	}
	if !notes[0].AddressedTo(model.RoleInstructor, f.instructor.ProfileID) || notes[0].Type != model.NotificationAttendanceRequest {
		t.Errorf("unexpected notification: %+v", notes[0])
	}

	_, err = f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{
		AttendanceID: f.absence.AttendanceID,
		Reason:       "again",
	})
	if !errors.Is(err, ErrRequestPending) {
		t.Errorf("expected ErrRequestPending, got: %v", err)
	}
}

func TestAttendanceRequestService_Request_Refusals(t *testing.T) {
	f := setupRequestFixture(t)
	other := f.m.seedStudent("Bob", "Aoun", "202302")

	cases := []struct {
		name  string
		actor Actor
		req   dto.CreateAttendanceRequest
		want  error
	}{
		{"missing record", f.student, dto.CreateAttendanceRequest{AttendanceID: "missing", Reason: "x"}, ErrAttendanceNotFound},
		{"someone else's record", Actor{Role: model.RoleStudent, ProfileID: other.StudentID}, dto.CreateAttendanceRequest{AttendanceID: f.absence.AttendanceID, Reason: "x"}, ErrNotOwnAttendance},
		{"already present", f.student, dto.CreateAttendanceRequest{AttendanceID: f.present.AttendanceID, Reason: "x"}, ErrNotAnAbsence},
		{"blank reason", f.student, dto.CreateAttendanceRequest{AttendanceID: f.absence.AttendanceID, Reason: "   "}, pkgerrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Request(context.Background(), tc.actor, &tc.req); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got: %v", tc.want, err)
			}
		})
	}
	if len(f.m.requests) != 0 {
		t.Error("no request should be stored")
	}
}

func TestAttendanceRequestService_Request_DroppedEnrollment(t *testing.T) {
	f := setupRequestFixture(t)
	f.m.enrollments[f.session.CourseID+":"+f.student.ProfileID].Status = model.EnrollmentDropped

	_, err := f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{
		AttendanceID: f.absence.AttendanceID,
		Reason:       "sick",
	})
	if !errors.Is(err, ErrEnrollmentInactive) {
		t.Errorf("expected ErrEnrollmentInactive, got: %v", err)
	}
}

func TestAttendanceRequestService_Approve_MarksPresent(t *testing.T) {
	f := setupRequestFixture(t)
	req, err := f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{AttendanceID: f.absence.AttendanceID, Reason: "sick"})
	if err != nil {
		t.Fatalf("Request should succeed: %v", err)
	}

	resp, err := f.svc.UpdateStatus(context.Background(), f.instructor, req.ID, &dto.UpdateAttendanceRequestStatus{Status: model.RequestApproved})
	if err != nil {
		t.Fatalf("UpdateStatus should succeed: %v", err)
	}
	if resp.Status != model.RequestApproved {
		t.Errorf("expected approved, got %s", resp.Status)
	}

	att := f.m.attendances[f.absence.AttendanceID]
	if att.IsPresent == nil || !*att.IsPresent {
		t.Fatal("attendance should be present after approval")
	}
	if want := day(2025, 1, 6).Add(8 * time.Hour); att.AttendedAt == nil || !att.AttendedAt.Equal(want) {
		t.Errorf("expected attended_at %v, got %v", want, att.AttendedAt)
	}

	decisions := 0
	for _, n := range f.m.notifications {
		if n.Type == model.NotificationRequestDecision && n.AddressedTo(model.RoleStudent, f.student.ProfileID) {
			decisions++
		}
	}
	if decisions != 1 {
		t.Errorf("student should get one decision notification, got %d", decisions)
	}

	_, err = f.svc.UpdateStatus(context.Background(), f.instructor, req.ID, &dto.UpdateAttendanceRequestStatus{Status: model.RequestRejected})
	if !errors.Is(err, ErrRequestNotPending) {
		t.Errorf("expected ErrRequestNotPending, got: %v", err)
	}
}

func TestAttendanceRequestService_Reject_KeepsAbsence(t *testing.T) {
	f := setupRequestFixture(t)
	req, _ := f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{AttendanceID: f.absence.AttendanceID, Reason: "sick"})

	if _, err := f.svc.UpdateStatus(context.Background(), f.instructor, req.ID, &dto.UpdateAttendanceRequestStatus{Status: model.RequestRejected}); err != nil {
		t.Fatalf("UpdateStatus should succeed: %v", err)
	}
	if att := f.m.attendances[f.absence.AttendanceID]; att.IsPresent == nil || *att.IsPresent {
		t.Error("rejected request should leave the absence")
	}
}

func TestAttendanceRequestService_UpdateStatus_Forbidden(t *testing.T) {
	f := setupRequestFixture(t)
	other := f.m.seedInstructor("Omar", "Khalil")
	req, _ := f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{AttendanceID: f.absence.AttendanceID, Reason: "sick"})

	_, err := f.svc.UpdateStatus(context.Background(), Actor{Role: model.RoleInstructor, ProfileID: other.InstructorID}, req.ID, &dto.UpdateAttendanceRequestStatus{Status: model.RequestApproved})
	if !errors.Is(err, ErrNotCourseInstructor) {
		t.Errorf("expected ErrNotCourseInstructor, got: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.instructor, "missing", &dto.UpdateAttendanceRequestStatus{Status: model.RequestApproved}); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got: %v", err)
	}
}

func TestAttendanceRequestService_Lists(t *testing.T) {
	f := setupRequestFixture(t)
	if _, err := f.svc.Request(context.Background(), f.student, &dto.CreateAttendanceRequest{AttendanceID: f.absence.AttendanceID, Reason: "sick"}); err != nil {
		t.Fatalf("Request should succeed: %v", err)
	}

	mine, err := f.svc.ListForStudent(context.Background(), f.student)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one student request, got %d (%v)", len(mine), err)
	}
	if mine[0].SessionDate != "2025-01-06" {
		t.Errorf("unexpected session date: %s", mine[0].SessionDate)
	}

	inbox, err := f.svc.ListForInstructor(context.Background(), f.instructor)
	if err != nil || len(inbox) != 1 {
		t.Fatalf("expected one instructor request, got %d (%v)", len(inbox), err)
	}
	other := f.m.seedInstructor("Omar", "Khalil")
	empty, _ := f.svc.ListForInstructor(context.Background(), Actor{Role: model.RoleInstructor, ProfileID: other.InstructorID})
	if len(empty) != 0 {
		t.Error("other instructors should see nothing")
	}
}
