package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
// Times are reported in the configured location
type RealClock struct {
	loc *time.Location
}

// New creates a new RealClock reporting local time
func New() *RealClock {
	return &RealClock{loc: time.Local}
}

// NewInLocation creates a RealClock reporting times in loc
func NewInLocation(loc *time.Location) *RealClock {
	return &RealClock{loc: loc}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now().In(c.loc)
}
