package dto

// ── notifications ──

// SendNotificationRequest is an instructor's message to a course.
type SendNotificationRequest struct {
	CourseID string                 `json:"course_id" binding:"required,uuid"`
	Message  string                 `json:"message"   binding:"required,max=2000"`
	Type     string                 `json:"type"      binding:"omitempty,max=50"`
	Data     map[string]interface{} `json:"data"`
}

// SendNotificationResult reports how many students were notified.
type SendNotificationResult struct {
	Recipients int `json:"recipients"`
	Emailed    int `json:"emailed"`
}

// NotificationResponse is a notification.
type NotificationResponse struct {
	ID        string                 `json:"id"`
	CourseID  *string                `json:"course_id,omitempty"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	IsRead    bool                   `json:"is_read"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt string                 `json:"created_at"`
}
