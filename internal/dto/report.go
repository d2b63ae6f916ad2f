package dto

// ScheduleEntry is one course on a weekly schedule.
type ScheduleEntry struct {
	CourseID    string   `json:"course_id"`
	Code        string   `json:"code"`
	Section     string   `json:"section"`
	Name        string   `json:"name"`
	DayOfWeek   string   `json:"day_of_week"`
	Days        []string `json:"days"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Room        string   `json:"room"`
	Credits     int      `json:"credits"`
	Instructors []string `json:"instructors,omitempty"`
}
