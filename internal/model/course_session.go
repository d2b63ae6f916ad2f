package model

import "time"

// CourseSession is one dated meeting of a course (table course_sessions).
type CourseSession struct {
	CourseSessionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_session_id"`
	CourseID        string    `gorm:"type:uuid;not null;index"                       json:"course_id"`
	Date            time.Time `gorm:"type:date;not null"                             json:"date"`
	BaseModel
}

// TableName maps to course_sessions.
func (CourseSession) TableName() string { return "course_sessions" }
