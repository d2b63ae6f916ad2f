package dto

// ── instructors ──

// CreateInstructorRequest creates an instructor account.
type CreateInstructorRequest struct {
	FirstName    string  `json:"first_name"    binding:"required,max=255"`
	LastName     string  `json:"last_name"     binding:"required,max=255"`
	Email        string  `json:"email"         binding:"required,email"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	PhoneNumber  *string `json:"phone_number"  binding:"omitempty,max=15"`
	Password     string  `json:"password"      binding:"required,min=8,max=72"`
}

// UpdateInstructorRequest patches an instructor.
type UpdateInstructorRequest struct {
	FirstName    *string `json:"first_name"    binding:"omitempty,max=255"`
	LastName     *string `json:"last_name"     binding:"omitempty,max=255"`
	Email        *string `json:"email"         binding:"omitempty,email"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	PhoneNumber  *string `json:"phone_number"  binding:"omitempty,max=15"`
}

// InstructorResponse is an instructor profile.
type InstructorResponse struct {
	ID          string              `json:"id"`
	User        UserResponse        `json:"user"`
	Department  *DepartmentResponse `json:"department,omitempty"`
	PhoneNumber *string             `json:"phone_number,omitempty"`
	Image       *string             `json:"image,omitempty"`
}

// InstructorBriefResponse is an instructor as listed on a course.
type InstructorBriefResponse struct {
	ID         string              `json:"id"`
	FirstName  string              `json:"first_name"`
	LastName   string              `json:"last_name"`
	Email      string              `json:"email"`
	Department *DepartmentResponse `json:"department,omitempty"`
}

// UpdateAdminProfileRequest is an admin's self-service edit.
type UpdateAdminProfileRequest struct {
	FirstName string `json:"first_name" binding:"required,max=255"`
	LastName  string `json:"last_name"  binding:"required,max=255"`
}
