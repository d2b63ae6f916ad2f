package dto

// ── attendance correction requests ──

// CreateAttendanceRequest is a student's appeal of one absence.
type CreateAttendanceRequest struct {
	AttendanceID string `json:"attendance_id" binding:"required,uuid"`
	Reason       string `json:"reason"        binding:"required,max=1000"`
}

// UpdateAttendanceRequestStatus decides a pending request.
type UpdateAttendanceRequestStatus struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// AttendanceRequestResponse is a correction request.
type AttendanceRequestResponse struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name,omitempty"`
	AttendanceID string `json:"attendance_id"`
	CourseID     string `json:"course_id,omitempty"`
	SessionDate  string `json:"session_date,omitempty"`
	Status       string `json:"status"`
	Reason       string `json:"reason"`
	RequestDate  string `json:"request_date"`
}
