package usecase

import "time"

// Clock returns the current time.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() Clock {
	return time.Now
}
