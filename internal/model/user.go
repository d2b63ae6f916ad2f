package model

// Roles.
const (
	RoleAdmin      = "Admin"
	RoleInstructor = "Instructor"
	RoleStudent    = "Student"
)

// User is a login identity (table users). Every user owns exactly one
// profile row in admins, instructors or students matching Role.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FirstName    string `gorm:"type:varchar(255);not null"                     json:"first_name"`
	LastName     string `gorm:"type:varchar(255);not null"                     json:"last_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null"                      json:"role"`
	BaseModel
}

// TableName maps to users.
func (User) TableName() string { return "users" }

// FullName joins first and last name.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// Admin profile (table admins).
type Admin struct {
	AdminID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"admin_id"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName maps to admins.
func (Admin) TableName() string { return "admins" }
