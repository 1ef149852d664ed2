// Package schedule turns separately edited date and time fields into one
// publication instant.
package schedule

import (
	"fmt"
	"time"
)

// DefaultWindowMinutes is the nominal duration given to every scheduled item
// for calendar rendering. It is a display convenience, not a claim about how
// long publication takes.
const DefaultWindowMinutes = 30

// IncompleteTimeError reports a missing date or time part. Resolution never
// defaults silently to "now".
type IncompleteTimeError struct {
	Part string // "date" or "time"
}

func (e *IncompleteTimeError) Error() string {
	return fmt.Sprintf("cannot resolve schedule: %s part is missing", e.Part)
}

// Resolve combines the calendar date of datePart with the clock time of
// timePart into an instant in the local zone. Any time component carried by
// datePart and any date component carried by timePart are discarded.
func Resolve(datePart, timePart time.Time) (time.Time, error) {
	if datePart.IsZero() {
		return time.Time{}, &IncompleteTimeError{Part: "date"}
	}
	if timePart.IsZero() {
		return time.Time{}, &IncompleteTimeError{Part: "time"}
	}

	return time.Date(
		datePart.Year(), datePart.Month(), datePart.Day(),
		timePart.Hour(), timePart.Minute(), 0, 0,
		time.Local,
	), nil
}

// WindowEnd returns the nominal end of the publication window. Non-positive
// durations fall back to the default.
func WindowEnd(instant time.Time, durationMinutes int) time.Time {
	if durationMinutes <= 0 {
		durationMinutes = DefaultWindowMinutes
	}
	return instant.Add(time.Duration(durationMinutes) * time.Minute)
}
