// Package attendance turns raw presence flags into absence percentages and
// risk classifications.
package attendance

import (
	"math"
	"time"
)

const (
	// AbsenceWeight is the percentage charged per recorded absence, based on
	// a nominal 30-session term.
	AbsenceWeight = 3.33
	// RiskThreshold is the inclusive absence percentage at which a student
	// is considered at risk of being dropped.
	RiskThreshold = 25.0
)

// Status is the risk classification of a student in a course.
type Status string

const (
	StatusAtRisk Status = "at risk"
	StatusSafe   Status = "safe"
)

// Summary aggregates one student's attendance in one course.
type Summary struct {
	Sessions          int     `json:"sessions"`
	Present           int     `json:"present"`
	Absent            int     `json:"absent"`
	Unrecorded        int     `json:"unrecorded"`
	AbsencePercentage float64 `json:"absence_percentage"`
	Status            Status  `json:"status"`
}

// Summarize counts explicit absences in flags. A nil flag is a session with
// no recorded outcome and is not counted as an absence.
func Summarize(flags []*bool) Summary {
	s := Summary{Sessions: len(flags)}
	for _, f := range flags {
		switch {
		case f == nil:
			s.Unrecorded++
		case *f:
			s.Present++
		default:
			s.Absent++
		}
	}
	s.AbsencePercentage = AbsencePercentage(s.Absent)
	s.Status = Classify(s.AbsencePercentage)
	return s
}

// AbsencePercentage is absent * AbsenceWeight rounded to two decimals.
func AbsencePercentage(absent int) float64 {
	return Round2(float64(absent) * AbsenceWeight)
}

// Classify maps an absence percentage to a risk status.
func Classify(pct float64) Status {
	if pct >= RiskThreshold {
		return StatusAtRisk
	}
	return StatusSafe
}

// Average returns the mean of pcts rounded to two decimals, or 0 when empty.
func Average(pcts []float64) float64 {
	if len(pcts) == 0 {
		return 0
	}
	var total float64
	for _, p := range pcts {
		total += p
	}
	return Round2(total / float64(len(pcts)))
}

// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ── per-session labels ──

// Calendar entry states.
const (
	SessionUpcoming   = "upcoming"
	SessionPresent    = "present"
	SessionAbsent     = "absent"
	SessionUnrecorded = "unrecorded"
)

// SessionState labels a session in a student's calendar. Sessions after today
// are upcoming regardless of any stored flag.
func SessionState(sessionDate, today time.Time, flag *bool) string {
	if truncate(sessionDate).After(truncate(today)) {
		return SessionUpcoming
	}
	switch {
	case flag == nil:
		return SessionUnrecorded
	case *flag:
		return SessionPresent
	default:
		return SessionAbsent
	}
}

// Report labels.
const (
	LabelPresent   = "Present"
	LabelAbsent    = "Absent"
	LabelNotMarked = "Not Marked"
)

// Label is the report wording for a presence flag.
func Label(flag *bool) string {
	switch {
	case flag == nil:
		return LabelNotMarked
	case *flag:
		return LabelPresent
	default:
		return LabelAbsent
	}
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
