package pace

import (
	"time"
)

// NewThrottle returns a throttled function that invokes f immediately on the
// first call, and then ignores calls until wait has elapsed since the last
// invocation.
//
// Unlike debounced functions, f runs on the goroutine calling the throttled
// function, and has returned by the time the throttled function returns.
//
// The returned reset function forgets the last invocation, so the next call
// is accepted. Both functions are safe for concurrent use.
func NewThrottle(
	wait time.Duration,
	f func(),
	opts ...Option,
) (throttled func(), reset func()) {
	t := NewThrottler(wait, opts...)

	throttled = func() {
		t.ThrottleWith(f)
	}

	return throttled, t.Reset
}

// Throttle returns a throttled function like NewThrottle, which forwards the
// argument of each accepted call to f. Dropped calls and their arguments are
// discarded.
func Throttle[T any](
	wait time.Duration,
	f func(T),
	opts ...Option,
) (throttled func(T), reset func()) {
	t := NewThrottler(wait, opts...)

	throttled = func(arg T) {
		if t.Allow() {
			f(arg)
		}
	}

	return throttled, t.Reset
}
