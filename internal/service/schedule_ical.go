package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/calendar"
	"github.com/Chafic123/Attendance-Backend/internal/model"
)

// ICSContentType of exported calendars.
const ICSContentType = "text/calendar; charset=utf-8"

const (
	icsProductID = "-//Attendance Backend//Course Schedule//EN"
	// DTSTART/DTEND are floating local times: sessions carry no zone.
	icsLocalLayout = "20060102T150405"
)

func (s *reportService) StudentScheduleICS(ctx context.Context, actor Actor) ([]byte, string, error) {
	student, err := loadStudent(ctx, s.repo, s.logger, actor.ProfileID)
	if err != nil {
		return nil, "", err
	}
	courses, err := s.studentCourses(ctx, actor.ProfileID)
	if err != nil {
		return nil, "", err
	}
	body, err := s.sessionCalendar(ctx, student.User.FullName()+" schedule", courses)
	if err != nil {
		return nil, "", err
	}
	return body, fmt.Sprintf("schedule_%s.ics", student.StudentNumber), nil
}

func (s *reportService) InstructorScheduleICS(ctx context.Context, actor Actor) ([]byte, string, error) {
	inst, err := s.repo.Instructor.GetByID(ctx, actor.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInstructorNotFound
		}
		return nil, "", err
	}
	courses, err := s.repo.Course.ListByInstructor(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list instructor courses failed", zap.String("instructor_id", actor.ProfileID), zap.Error(err))
		return nil, "", err
	}
	body, err := s.sessionCalendar(ctx, inst.User.FullName()+" schedule", courses)
	if err != nil {
		return nil, "", err
	}
	return body, "schedule.ics", nil
}

// sessionCalendar emits one VEVENT per stored session. The session id is
// the event UID so re-imports update events in place.
func (s *reportService) sessionCalendar(ctx context.Context, name string, courses []model.Course) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(name)

	stamp := s.now().UTC()
	for i := range courses {
		c := &courses[i]
		sessions, err := s.repo.Session.ListByCourse(ctx, c.CourseID)
		if err != nil {
			s.logger.Error("list sessions failed", zap.String("course_id", c.CourseID), zap.Error(err))
			return nil, err
		}
		summary := fmt.Sprintf("%s-%s %s", c.Code, c.Section, c.Name)
		names := instructorNames(c)

		for _, sess := range sessions {
			event := cal.AddEvent(sess.CourseSessionID + "@attendance")
			event.SetDtStampTime(stamp)
			event.SetProperty(ics.ComponentPropertyDtStart, sessionClock(sess.Date, c.StartTime))
			event.SetProperty(ics.ComponentPropertyDtEnd, sessionClock(sess.Date, c.EndTime))
			event.SetSummary(summary)
			event.SetLocation(c.Room)
			if len(names) > 0 {
				event.SetDescription("Instructor: " + strings.Join(names, ", "))
			}
		}
	}
	return []byte(cal.Serialize()), nil
}

// sessionClock joins a session date and an HH:MM[:SS] course time.
func sessionClock(date time.Time, clock string) string {
	d := calendar.Date(date)
	if t, err := time.Parse("15:04", clockTime(clock)); err == nil {
		d = d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	}
	return d.Format(icsLocalLayout)
}
