package clock

import "time"

// Clock provides the current time. Services take a Clock instead of
// calling time.Now so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// System is the real clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed is a clock frozen at a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
