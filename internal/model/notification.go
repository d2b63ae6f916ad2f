package model

import "gorm.io/datatypes"

// Notification types.
const (
	NotificationCourseMessage     = "course_message"
	NotificationAttendanceRequest = "attendance_request"
	NotificationRequestDecision   = "request_decision"
)

// Notification is an in-app message to one instructor or one student
// (table notifications). RecipientRole decides which of InstructorID and
// StudentID addresses it.
type Notification struct {
	NotificationID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	RecipientRole  string         `gorm:"type:varchar(20);not null"                      json:"recipient_role"`
	InstructorID   *string        `gorm:"type:uuid"                                      json:"instructor_id,omitempty"`
	StudentID      *string        `gorm:"type:uuid"                                      json:"student_id,omitempty"`
	CourseID       *string        `gorm:"type:uuid"                                      json:"course_id,omitempty"`
	Message        string         `gorm:"type:text;not null"                             json:"message"`
	Type           string         `gorm:"type:varchar(50);not null"                      json:"type"`
	IsRead         bool           `gorm:"not null;default:false"                         json:"is_read"`
	Data           datatypes.JSON `gorm:"type:jsonb"                                     json:"data,omitempty"`
	BaseModel
}

// TableName maps to notifications.
func (Notification) TableName() string { return "notifications" }

// AddressedTo reports whether the notification belongs to the given profile.
func (n *Notification) AddressedTo(role, profileID string) bool {
	switch {
	case n.RecipientRole != role:
		return false
	case role == RoleInstructor:
		return n.InstructorID != nil && *n.InstructorID == profileID
	case role == RoleStudent:
		return n.StudentID != nil && *n.StudentID == profileID
	}
	return false
}
