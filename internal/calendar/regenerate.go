package calendar

import "time"

// Update moves the existing session at Index to Date.
type Update struct {
	Index int
	Date  time.Time
}

// Plan is the set of writes needed to bring a course's sessions in line with
// a new list of meeting dates.
type Plan struct {
	Updates []Update
	Creates []time.Time
	// Stale counts existing sessions past the end of the new dates. They are
	// left in place.
	Stale int
}

// Empty reports whether the plan performs no writes.
func (p Plan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Creates) == 0
}

// Reconcile pairs newDates[i] with the i-th existing session for every
// i < min(existingCount, len(newDates)); the remaining new dates become new
// sessions. Callers index existing sessions in date order.
func Reconcile(existingCount int, newDates []time.Time) Plan {
	paired := existingCount
	if len(newDates) < paired {
		paired = len(newDates)
	}

	plan := Plan{
		Updates: make([]Update, 0, paired),
	}
	for i := 0; i < paired; i++ {
		plan.Updates = append(plan.Updates, Update{Index: i, Date: newDates[i]})
	}
	if len(newDates) > existingCount {
		plan.Creates = append([]time.Time(nil), newDates[existingCount:]...)
	}
	if existingCount > len(newDates) {
		plan.Stale = existingCount - len(newDates)
	}
	return plan
}

// Regenerate decides whether sessions must be rebuilt after a course edit and
// returns the plan. Nothing happens unless the pattern changed and a term is
// active on today.
func Regenerate(oldPattern, newPattern string, term *Window, today time.Time, existingCount int) (Plan, bool) {
	if oldPattern == newPattern || term == nil || !term.Contains(today) {
		return Plan{}, false
	}
	return Reconcile(existingCount, MeetingDates(newPattern, *term)), true
}
