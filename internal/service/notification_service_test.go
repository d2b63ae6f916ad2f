package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/pkg/mail"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[msg.To] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupTestNotificationService(mailer mail.Sender) (*notificationService, *memStore) {
	m := newMemStore()
	return &notificationService{repo: m.repo(), mailer: mailer, logger: zap.NewNop()}, m
}

func TestNotificationService_Send_ActiveStudentsOnly(t *testing.T) {
	mailer := &fakeMailer{fail: map[string]bool{"bob@students.edu": true}}
	svc, m := setupTestNotificationService(mailer)
	inst := m.seedInstructor("Rana", "Haddad")
	course := m.seedCourse("CSC200", "A", "MW", "09:00", "10:15", "B101", inst.InstructorID)
	alice := m.seedStudent("Alice", "Nasr", "202301")
	bob := m.seedStudent("Bob", "Aoun", "202302")
	carl := m.seedStudent("Carl", "Saab", "202303")
	m.seedEnrollment(course.CourseID, alice.StudentID, model.EnrollmentActive)
	m.seedEnrollment(course.CourseID, bob.StudentID, model.EnrollmentActive)
	m.seedEnrollment(course.CourseID, carl.StudentID, model.EnrollmentDropped)

	actor := Actor{Role: model.RoleInstructor, ProfileID: inst.InstructorID}
	result, err := svc.Send(context.Background(), actor, &dto.SendNotificationRequest{
		CourseID: course.CourseID,
		Message:  "Quiz <moved> to Monday",
		Data:     map[string]interface{}{"quiz": 2},
	})
	if err != nil {
		t.Fatalf("Send should succeed: %v", err)
	}
	if result.Recipients != 2 || result.Emailed != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	if len(mailer.sent) != 1 || mailer.sent[0].To != "alice@students.edu" {
		t.Fatalf("expected one e-mail to alice, got %+v", mailer.sent)
	}
	if mailer.sent[0].HTML != "<p>Quiz &lt;moved&gt; to Monday</p>" {
		t.Errorf("body should be escaped, got %q", mailer.sent[0].HTML)
	}

	list, err := svc.ListForStudent(context.Background(), Actor{Role: model.RoleStudent, ProfileID: alice.StudentID})
	if err != nil {
		t.Fatalf("ListForStudent should succeed: %v", err)
	}
	if len(list) != 1 || list[0].Type != model.NotificationCourseMessage || list[0].Data["quiz"] != float64(2) {
		t.Errorf("unexpected notifications: %+v", list)
	}
	dropped, _ := svc.ListForStudent(context.Background(), Actor{Role: model.RoleStudent, ProfileID: carl.StudentID})
	if len(dropped) != 0 {
		t.Error("dropped students should not be notified")
	}
}

func TestNotificationService_Send_WithoutMailer(t *testing.T) {
	svc, m := setupTestNotificationService(nil)
	inst := m.seedInstructor("Rana", "Haddad")
	course := m.seedCourse("CSC200", "A", "MW", "09:00", "10:15", "B101", inst.InstructorID)
	alice := m.seedStudent("Alice", "Nasr", "202301")
	m.seedEnrollment(course.CourseID, alice.StudentID, model.EnrollmentActive)

	result, err := svc.Send(context.Background(), Actor{Role: model.RoleAdmin}, &dto.SendNotificationRequest{
		CourseID: course.CourseID,
		Message:  "Room changed",
		Type:     "room_change",
	})
	if err != nil {
		t.Fatalf("Send should succeed: %v", err)
	}
	if result.Recipients != 1 || result.Emailed != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestNotificationService_Send_NotTeaching(t *testing.T) {
	svc, m := setupTestNotificationService(nil)
	owner := m.seedInstructor("Rana", "Haddad")
	other := m.seedInstructor("Omar", "Khalil")
	course := m.seedCourse("CSC200", "A", "MW", "09:00", "10:15", "B101", owner.InstructorID)

	_, err := svc.Send(context.Background(), Actor{Role: model.RoleInstructor, ProfileID: other.InstructorID}, &dto.SendNotificationRequest{
		CourseID: course.CourseID,
		Message:  "hello",
	})
	if !errors.Is(err, ErrNotCourseInstructor) {
		t.Errorf("expected ErrNotCourseInstructor, got: %v", err)
	}
	if len(m.notifications) != 0 {
		t.Error("no notification should be stored")
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, m := setupTestNotificationService(nil)
	alice := m.seedStudent("Alice", "Nasr", "202301")
	bob := m.seedStudent("Bob", "Aoun", "202302")
	studentID := alice.StudentID
	notes := []model.Notification{{RecipientRole: model.RoleStudent, StudentID: &studentID, Message: "hi", Type: model.NotificationCourseMessage}}
	_ = (&mockNotificationRepo{m}).BatchCreate(context.Background(), notes)
	id := notes[0].NotificationID

	err := svc.MarkRead(context.Background(), Actor{Role: model.RoleStudent, ProfileID: bob.StudentID}, id)
	if !errors.Is(err, ErrNotRecipient) {
		t.Errorf("expected ErrNotRecipient, got: %v", err)
	}
	// same profile id under another role is not the recipient either
	err = svc.MarkRead(context.Background(), Actor{Role: model.RoleInstructor, ProfileID: alice.StudentID}, id)
	if !errors.Is(err, ErrNotRecipient) {
		t.Errorf("expected ErrNotRecipient for wrong role, got: %v", err)
	}

	owner := Actor{Role: model.RoleStudent, ProfileID: alice.StudentID}
	if err := svc.MarkRead(context.Background(), owner, id); err != nil {
		t.Fatalf("MarkRead should succeed: %v", err)
	}
	if !m.notifications[id].IsRead {
		t.Error("notification should be read")
	}
	if err := svc.MarkRead(context.Background(), owner, id); err != nil {
		t.Errorf("marking twice should be a no-op, got: %v", err)
	}
	if err := svc.MarkRead(context.Background(), owner, "missing"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got: %v", err)
	}
}
