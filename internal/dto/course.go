package dto

// ── courses ──

// CourseRequest creates or replaces a course. Times are HH:MM.
type CourseRequest struct {
	Code         string `json:"code"          binding:"required,max=50"`
	Section      string `json:"section"       binding:"required,max=255"`
	Name         string `json:"name"          binding:"required,max=255"`
	DayOfWeek    string `json:"day_of_week"   binding:"required,weekdays"`
	StartTime    string `json:"start_time"    binding:"required,hhmm"`
	EndTime      string `json:"end_time"      binding:"required,hhmm"`
	Room         string `json:"room"          binding:"required,max=255"`
	Credits      int    `json:"credits"       binding:"required,min=1"`
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
	// Version, when set, must match the stored version.
	Version *int `json:"version" binding:"omitempty,min=1"`
}

// CourseResponse is a course with its instructors.
type CourseResponse struct {
	ID          string                    `json:"id"`
	Code        string                    `json:"code"`
	Section     string                    `json:"section"`
	Name        string                    `json:"name"`
	DayOfWeek   string                    `json:"day_of_week"`
	StartTime   string                    `json:"start_time"`
	EndTime     string                    `json:"end_time"`
	Room        string                    `json:"room"`
	Credits     int                       `json:"credits"`
	Version     int                       `json:"version"`
	Instructors []InstructorBriefResponse `json:"instructors"`
}

// CourseConflictDetails names the course a room/time conflict is with.
type CourseConflictDetails struct {
	ConflictWith CourseResponse `json:"conflict_with"`
}

// CalendarSession is one session in a course calendar.
type CalendarSession struct {
	SessionID    string `json:"session_id"`
	Date         string `json:"date"`
	DayName      string `json:"day_name"`
	IsCurrentDay bool   `json:"is_current_day"`
}

// CourseCalendarResponse lists a course's sessions by date.
type CourseCalendarResponse struct {
	CourseID      string            `json:"course_id"`
	Sessions      []CalendarSession `json:"sessions"`
	TotalSessions int               `json:"total_sessions"`
	CurrentDate   string            `json:"current_date"`
	HasCurrentDay bool              `json:"has_current_day"`
}

// CourseStudentResponse is an enrolled student with attendance standing.
type CourseStudentResponse struct {
	StudentID         string  `json:"student_id"`
	StudentNumber     string  `json:"student_number"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	EnrollmentStatus  string  `json:"enrollment_status"`
	AbsencePercentage float64 `json:"absence_percentage"`
	Status            string  `json:"status"`
}

// EnrollStudentsRequest enrolls students into a course.
type EnrollStudentsRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1,dive,uuid"`
}

// EnrollStudentsResult reports what enrollment did.
type EnrollStudentsResult struct {
	Enrolled          int `json:"enrolled"`
	AttendanceCreated int `json:"attendance_created"`
	Failed            int `json:"failed"`
}

// EnrollInstructorsRequest assigns instructors to a course.
type EnrollInstructorsRequest struct {
	InstructorIDs []string `json:"instructor_ids" binding:"required,min=1,dive,uuid"`
}

// EnrollInstructorsResult reports what assignment did.
type EnrollInstructorsResult struct {
	Attached int `json:"attached"`
}
