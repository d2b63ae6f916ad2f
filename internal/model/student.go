package model

// Student profile (table students).
type Student struct {
	StudentID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	UserID        string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	StudentNumber string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"student_number"`
	DepartmentID  *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	Major         string  `gorm:"type:varchar(255);not null;default:''"          json:"major"`
	PhoneNumber   *string `gorm:"type:varchar(15)"                               json:"phone_number,omitempty"`
	Image         *string `gorm:"type:varchar(255)"                              json:"image,omitempty"`
	BaseModel

	User       *User       `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName maps to students.
func (Student) TableName() string { return "students" }
