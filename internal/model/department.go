package model

// Department (table departments).
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"name"`
	BaseModel
}

// TableName maps to departments.
func (Department) TableName() string { return "departments" }
