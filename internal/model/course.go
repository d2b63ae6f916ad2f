package model

// Course is one section of a course (table courses). DayOfWeek is a weekday
// pattern such as "MWF"; StartTime and EndTime are wall-clock "HH:MM".
type Course struct {
	CourseID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code      string `gorm:"type:varchar(50);not null"                      json:"code"`
	Section   string `gorm:"type:varchar(255);not null"                     json:"section"`
	Name      string `gorm:"type:varchar(255);not null"                     json:"name"`
	DayOfWeek string `gorm:"type:varchar(7);not null"                       json:"day_of_week"`
	StartTime string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime   string `gorm:"type:time;not null"                             json:"end_time"`
	Room      string `gorm:"type:varchar(255);not null"                     json:"room"`
	Credits   int    `gorm:"not null"                                       json:"credits"`
	VersionedModel

	Instructors []Instructor `gorm:"many2many:course_instructors;foreignKey:CourseID;joinForeignKey:CourseID;references:InstructorID;joinReferences:InstructorID" json:"instructors,omitempty"`
}

// TableName maps to courses.
func (Course) TableName() string { return "courses" }

// CourseInstructor is the join table course_instructors.
type CourseInstructor struct {
	CourseID     string `gorm:"type:uuid;primaryKey" json:"course_id"`
	InstructorID string `gorm:"type:uuid;primaryKey" json:"instructor_id"`
	BaseModel
}

// TableName maps to course_instructors.
func (CourseInstructor) TableName() string { return "course_instructors" }
