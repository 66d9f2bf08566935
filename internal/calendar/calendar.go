// Package calendar anchors all week and day arithmetic to Europe/Madrid.
// Weeks start Monday 00:00 local time and are half-open: an instant
// belongs to [StartOfWeek, StartOfNextWeek). Arithmetic works on civil
// dates, so DST transitions (23h and 25h days) never shift a boundary.
package calendar

import (
	"time"
	_ "time/tzdata"
)

// Calendar performs date arithmetic in a fixed location.
type Calendar struct {
	loc *time.Location
}

// Madrid returns the calendar used throughout the app.
func Madrid() *Calendar {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		// tzdata is linked in, so this cannot happen outside of a
		// corrupted build.
		panic(err)
	}
	return &Calendar{loc: loc}
}

// Location exposes the underlying zone for formatting.
func (c *Calendar) Location() *time.Location { return c.loc }

// StartOfDay returns midnight local time of t's civil date.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// StartOfWeek returns the Monday 00:00 that begins t's week.
func (c *Calendar) StartOfWeek(t time.Time) time.Time {
	local := t.In(c.loc)
	y, m, d := local.Date()
	back := (int(local.Weekday()) + 6) % 7
	return time.Date(y, m, d-back, 0, 0, 0, 0, c.loc)
}

// StartOfNextWeek returns the exclusive end of t's week.
func (c *Calendar) StartOfNextWeek(t time.Time) time.Time {
	return c.AddDays(c.StartOfWeek(t), 7)
}

// AddDays adds n civil days, preserving the wall clock where it exists.
func (c *Calendar) AddDays(t time.Time, n int) time.Time {
	local := t.In(c.loc)
	y, m, d := local.Date()
	hh, mm, ss := local.Clock()
	return time.Date(y, m, d+n, hh, mm, ss, local.Nanosecond(), c.loc)
}

// AddWeeks adds n*7 civil days.
func (c *Calendar) AddWeeks(t time.Time, n int) time.Time {
	return c.AddDays(t, 7*n)
}

// DaysBetween returns the number of civil days from a's date to b's
// date (negative when b is earlier).
func (c *Calendar) DaysBetween(a, b time.Time) int {
	return julianDay(b.In(c.loc)) - julianDay(a.In(c.loc))
}

// SameDay reports whether both instants fall on the same civil date.
func (c *Calendar) SameDay(a, b time.Time) bool {
	return c.DaysBetween(a, b) == 0
}

func julianDay(t time.Time) int {
	y, m, d := t.Date()
	utc := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(utc.Unix() / 86400)
}
