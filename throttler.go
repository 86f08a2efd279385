package pace

import (
	"sync"
	"time"

	"github.com/romdo/go-pace/clock"
)

// Throttler provides leading-edge throttling for function calls. The first
// call is always accepted, and later calls are accepted once wait has elapsed
// since the last accepted call. Calls in between are dropped, and no trailing
// invocation is ever scheduled.
type Throttler struct {
	wait  time.Duration
	clock clock.Clock

	mux          sync.Mutex
	lastAccepted time.Time
}

// NewThrottler creates a new Throttler with the given wait duration. Only the
// WithClock option has an effect.
func NewThrottler(wait time.Duration, opts ...Option) *Throttler {
	c := newConfig(opts)

	return &Throttler{
		wait:  wait,
		clock: c.clock,
	}
}

// Allow reports whether a call at the current time is accepted, and if so,
// records it as the last accepted call. This method is safe for concurrent
// use.
func (t *Throttler) Allow() bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	now := t.clock.Now()

	if !t.lastAccepted.IsZero() {
		elapsed := now.Sub(t.lastAccepted)
		if elapsed >= 0 && elapsed < t.wait {
			return false
		}
	}

	t.lastAccepted = now

	return true
}

// ThrottleWith invokes f on the calling goroutine if the call is accepted,
// and reports whether it was.
func (t *Throttler) ThrottleWith(f func()) bool {
	if !t.Allow() {
		return false
	}

	if f != nil {
		f()
	}

	return true
}

// Reset forgets the last accepted call, so the next call is accepted.
func (t *Throttler) Reset() {
	t.mux.Lock()
	defer t.mux.Unlock()

	t.lastAccepted = time.Time{}
}

// LastAccepted returns the time of the last accepted call, or the zero time
// if no call has been accepted since creation or the last Reset.
func (t *Throttler) LastAccepted() time.Time {
	t.mux.Lock()
	defer t.mux.Unlock()

	return t.lastAccepted
}
