// Package calendar expands weekday patterns into meeting dates and reconciles
// them against the sessions already stored for a course.
//
// A weekday pattern is a string of single-letter day codes with no delimiter,
// e.g. "MWF". Letters: U=Sunday M=Monday T=Tuesday W=Wednesday R=Thursday
// F=Friday S=Saturday.
package calendar

import (
	"strings"
	"time"
)

// letters is indexed by time.Weekday.
const letters = "UMTWRFS"

// Letter returns the pattern letter of a weekday.
func Letter(d time.Weekday) byte {
	return letters[d]
}

// NormalizePattern upper-cases and trims a pattern.
func NormalizePattern(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

// ValidPattern reports whether p is a non-empty pattern of distinct day letters.
func ValidPattern(p string) bool {
	if p == "" || len(p) > len(letters) {
		return false
	}
	seen := make(map[rune]bool, len(p))
	for _, r := range p {
		if !strings.ContainsRune(letters, r) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

// Matches reports whether the weekday of d is part of the pattern.
func Matches(pattern string, d time.Time) bool {
	return strings.IndexByte(pattern, Letter(d.Weekday())) >= 0
}

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is an inclusive date range, typically a term.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	day := Date(t)
	return !day.Before(Date(w.Start)) && !day.After(Date(w.End))
}

// MeetingDates lists every day in [w.Start, w.End] whose letter is in the
// pattern, ascending.
func MeetingDates(pattern string, w Window) []time.Time {
	start, end := Date(w.Start), Date(w.End)
	if end.Before(start) || pattern == "" {
		return nil
	}

	var dates []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if Matches(pattern, day) {
			dates = append(dates, day)
		}
	}
	return dates
}
