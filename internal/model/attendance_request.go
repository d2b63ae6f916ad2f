package model

import "time"

// Attendance request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AttendanceRequest is a student's appeal against a recorded absence
// (table attendance_requests).
type AttendanceRequest struct {
	AttendanceRequestID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_request_id"`
	StudentID           string    `gorm:"type:uuid;not null"                             json:"student_id"`
	AttendanceID        string    `gorm:"type:uuid;not null"                             json:"attendance_id"`
	Status              string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Reason              string    `gorm:"type:text;not null"                             json:"reason"`
	RequestDate         time.Time `gorm:"type:date;not null"                             json:"request_date"`
	BaseModel

	Student    *Student    `gorm:"foreignKey:StudentID;references:StudentID"       json:"student,omitempty"`
	Attendance *Attendance `gorm:"foreignKey:AttendanceID;references:AttendanceID" json:"attendance,omitempty"`
}

// TableName maps to attendance_requests.
func (AttendanceRequest) TableName() string { return "attendance_requests" }
