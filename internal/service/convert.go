package service

import (
	"time"

	"github.com/Chafic123/Attendance-Backend/internal/calendar"
	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string { return t.Format(dateLayout) }

// clockTime trims the seconds PostgreSQL appends to TIME values.
func clockTime(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// today returns the current calendar day in UTC.
func today(now func() time.Time) time.Time {
	return calendar.Date(now())
}

func toUserResponse(u *model.User) dto.UserResponse {
	if u == nil {
		return dto.UserResponse{}
	}
	return dto.UserResponse{
		ID:        u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

func toDepartmentResponse(d *model.Department) *dto.DepartmentResponse {
	if d == nil {
		return nil
	}
	return &dto.DepartmentResponse{ID: d.DepartmentID, Name: d.Name}
}

func toInstructorResponse(i *model.Instructor) *dto.InstructorResponse {
	return &dto.InstructorResponse{
		ID:          i.InstructorID,
		User:        toUserResponse(i.User),
		Department:  toDepartmentResponse(i.Department),
		PhoneNumber: i.PhoneNumber,
		Image:       i.Image,
	}
}

func toInstructorBrief(i *model.Instructor) dto.InstructorBriefResponse {
	b := dto.InstructorBriefResponse{
		ID:         i.InstructorID,
		Department: toDepartmentResponse(i.Department),
	}
	if i.User != nil {
		b.FirstName = i.User.FirstName
		b.LastName = i.User.LastName
		b.Email = i.User.Email
	}
	return b
}

func toStudentResponse(s *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:            s.StudentID,
		StudentNumber: s.StudentNumber,
		User:          toUserResponse(s.User),
		Department:    toDepartmentResponse(s.Department),
		Major:         s.Major,
		PhoneNumber:   s.PhoneNumber,
		Image:         s.Image,
	}
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:          c.CourseID,
		Code:        c.Code,
		Section:     c.Section,
		Name:        c.Name,
		DayOfWeek:   c.DayOfWeek,
		StartTime:   clockTime(c.StartTime),
		EndTime:     clockTime(c.EndTime),
		Room:        c.Room,
		Credits:     c.Credits,
		Version:     c.Version,
		Instructors: make([]dto.InstructorBriefResponse, 0, len(c.Instructors)),
	}
	for i := range c.Instructors {
		resp.Instructors = append(resp.Instructors, toInstructorBrief(&c.Instructors[i]))
	}
	return resp
}

func instructorNames(c *model.Course) []string {
	names := make([]string, 0, len(c.Instructors))
	for i := range c.Instructors {
		names = append(names, c.Instructors[i].User.FullName())
	}
	return names
}

func toTermResponse(t *model.Term, day time.Time) *dto.TermResponse {
	w := calendar.Window{Start: t.StartDate, End: t.EndDate}
	return &dto.TermResponse{
		ID:        t.TermID,
		Name:      t.Name,
		StartDate: formatDate(t.StartDate),
		EndDate:   formatDate(t.EndDate),
		IsActive:  w.Contains(day),
	}
}
