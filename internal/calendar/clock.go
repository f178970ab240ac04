package calendar

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It is used to pick the default month when the caller does not name one.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// CurrentMonth returns the month containing the clock's current local date.
func CurrentMonth(c Clock) Month {
	now := c.Now()
	return NewMonth(now.Year(), int(now.Month()))
}
