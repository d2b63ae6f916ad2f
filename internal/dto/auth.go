package dto

// ── auth ──

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest changes the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// TokenResponse is an issued token pair.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// MeResponse is the caller with the profile matching their role.
type MeResponse struct {
	User       UserResponse        `json:"user"`
	ProfileID  string              `json:"profile_id"`
	Instructor *InstructorResponse `json:"instructor,omitempty"`
	Student    *StudentResponse    `json:"student,omitempty"`
}
