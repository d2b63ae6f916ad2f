package model

import "time"

// Attendance is one student's outcome for one session (table attendances).
// IsPresent is nil until the outcome is recorded.
type Attendance struct {
	AttendanceID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	CourseSessionID string     `gorm:"type:uuid;not null"                             json:"course_session_id"`
	StudentID       string     `gorm:"type:uuid;not null;index"                       json:"student_id"`
	IsPresent       *bool      `                                                      json:"is_present"`
	AttendedAt      *time.Time `                                                      json:"attended_at,omitempty"`
	BaseModel

	Session *CourseSession `gorm:"foreignKey:CourseSessionID;references:CourseSessionID" json:"session,omitempty"`
}

// TableName maps to attendances.
func (Attendance) TableName() string { return "attendances" }
