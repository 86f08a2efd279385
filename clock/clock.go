// Package clock abstracts the parts of the time package used for scheduling,
// so that debouncers and throttlers can be driven by a Mock clock in tests.
package clock

import "time"

// Clock provides the current time and deferred function calls.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for the duration to elapse and then calls f in its own
	// goroutine. The returned Timer can be used to stop or re-arm the call.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the Timer from firing. It returns true if the call stops
	// the timer, false if the timer has already expired or been stopped.
	Stop() bool

	// Reset changes the timer to expire after duration d. It returns true if
	// the timer had been active.
	Reset(d time.Duration) bool
}

// Real is a Clock backed by the time package.
type Real struct{}

var _ Clock = Real{}

// New returns the real clock.
func New() Clock {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
