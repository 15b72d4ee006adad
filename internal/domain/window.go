package domain

import "time"

// DateWindow is an inclusive range of UTC calendar days.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// NewDateWindow truncates both bounds to their UTC calendar day.
func NewDateWindow(start, end time.Time) DateWindow {
	return DateWindow{Start: DateOf(start), End: DateOf(end)}
}

// Valid reports whether Start is not after End.
func (w DateWindow) Valid() bool {
	return !w.Start.After(w.End)
}

// Contains reports whether the calendar day of t lies within [Start, End].
func (w DateWindow) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// DateOf returns midnight UTC of the calendar day t falls on in UTC.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
