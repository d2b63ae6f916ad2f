package model

import "time"

// Enrollment statuses.
const (
	EnrollmentActive  = "active"
	EnrollmentDropped = "dropped"
)

// Enrollment links a student to a course (table enrollments).
type Enrollment struct {
	CourseID       string    `gorm:"type:uuid;primaryKey"                       json:"course_id"`
	StudentID      string    `gorm:"type:uuid;primaryKey"                       json:"student_id"`
	Status         string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	EnrollmentDate time.Time `gorm:"type:date;not null"                         json:"enrollment_date"`
	BaseModel

	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName maps to enrollments.
func (Enrollment) TableName() string { return "enrollments" }

// IsActive reports whether the enrollment counts toward rosters.
func (e *Enrollment) IsActive() bool { return e != nil && e.Status == EnrollmentActive }
