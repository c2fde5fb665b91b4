package clock

import "time"

// Clock abstracts wall-clock time so production timers can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}
