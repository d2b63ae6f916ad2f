package model

// Instructor profile (table instructors).
type Instructor struct {
	InstructorID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instructor_id"`
	UserID       string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	DepartmentID *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	PhoneNumber  *string `gorm:"type:varchar(15)"                               json:"phone_number,omitempty"`
	Image        *string `gorm:"type:varchar(255)"                              json:"image,omitempty"`
	BaseModel

	User       *User       `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName maps to instructors.
func (Instructor) TableName() string { return "instructors" }
