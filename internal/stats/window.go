// Package stats computes the read-only projections shown on dashboards and
// list pages. Every function is a pure function of the rows it is given and
// the supplied clock reading; nothing is cached.
package stats

import (
	"time"
)

// UpcomingHorizon is how far ahead a session counts as upcoming.
const UpcomingHorizon = 7 * 24 * time.Hour

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// DayWindow returns the calendar day containing day, in loc.
func DayWindow(day time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return Window{From: start, To: start.AddDate(0, 0, 1)}
}

// MonthWindow returns the calendar month containing now, in loc.
func MonthWindow(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	start := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc)
	return Window{From: start, To: start.AddDate(0, 1, 0)}
}
