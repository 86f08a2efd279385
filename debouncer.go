package pace

import (
	"sync"
	"time"

	"github.com/romdo/go-pace/clock"
)

// Debouncer provides debouncing functionality for function calls.
// It combines configuration and state into a single struct with methods
// for invoking and resetting the debounced function.
type Debouncer struct {
	// Configuration
	wait     time.Duration
	leading  bool
	trailing bool
	maxWait  time.Duration
	clock    clock.Clock

	// State
	mux        sync.Mutex
	fn         func()
	dirty      bool
	deadline   time.Time
	lastCall   time.Time
	lastInvoke time.Time
	maxTimer   clock.Timer
	timer      clock.Timer
}

// NewDebouncer creates a new Debouncer instance with the given wait duration,
// function, and options. The function may be nil when every call will provide
// one through DebounceWith.
func NewDebouncer(
	wait time.Duration,
	f func(),
	opts ...Option,
) *Debouncer {
	c := newConfig(opts)

	d := &Debouncer{
		wait:     wait,
		leading:  c.leading,
		trailing: c.trailing,
		maxWait:  c.maxWait,
		clock:    c.clock,
		fn:       f,
	}

	// If neither leading nor trailing is set, default to trailing.
	if !d.leading && !d.trailing {
		d.trailing = true
	}

	// If maxWait is less than wait, disable maxWait.
	if d.maxWait <= d.wait {
		d.maxWait = 0
	}

	d.timer = stoppedTimer(d.clock, d.expire)
	d.maxTimer = stoppedTimer(d.clock, d.callback)

	return d
}

// Debounce invokes the debounced function according to the configured options.
// This method is safe for concurrent use.
func (d *Debouncer) Debounce() {
	d.DebounceWith(nil)
}

// DebounceWith allows setting a new function to be debounced and invoking it
// according to the configured options. On repeated calls, the last passed
// function wins and is executed. This method is safe for concurrent use.
//
// If f is nil, the debounced function is not modified from its current value.
func (d *Debouncer) DebounceWith(f func()) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if f != nil {
		d.fn = f
	}

	now := d.clock.Now()

	if d.wait <= 0 {
		d.invoke(now)
		d.lastCall = now

		return
	}

	if d.leading && d.exceededWait(now) {
		d.invoke(now)
		d.clear()
		d.lastCall = now

		return
	}

	if d.trailing {
		d.deadline = now.Add(d.wait)
		d.timer.Reset(d.wait)
	}

	if d.maxWait > 0 && !d.dirty {
		d.maxTimer.Reset(d.maxWait)
	}

	if d.trailing || d.maxWait > 0 {
		d.dirty = true
	}

	d.lastCall = now
}

// Reset resets the debouncer, discarding any pending invocation.
// This method is safe for concurrent use.
func (d *Debouncer) Reset() {
	d.mux.Lock()
	defer d.mux.Unlock()

	d.lastCall = time.Time{}
	d.lastInvoke = time.Time{}
	d.clear()
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	return d.dirty
}

// exceededWait reports whether a leading invocation is allowed at now. It
// should only be called while the mutex is already locked.
func (d *Debouncer) exceededWait(now time.Time) bool {
	if d.lastCall.IsZero() {
		return true
	}

	elapsed := now.Sub(d.lastCall)
	elapsedInvoke := now.Sub(d.lastInvoke)

	return elapsed < 0 ||
		elapsedInvoke < 0 ||
		(elapsed >= d.wait && elapsedInvoke >= d.wait)
}

// expire is called when timer expires. Expiries which arrive after a later
// call pushed the deadline forward are ignored, as the timer has already been
// re-armed by that call.
func (d *Debouncer) expire() {
	d.mux.Lock()
	defer d.mux.Unlock()

	if !d.dirty {
		return
	}

	now := d.clock.Now()
	if now.Before(d.deadline) {
		return
	}

	d.invoke(now)
	d.clear()
}

// callback is called when maxTimer expires.
func (d *Debouncer) callback() {
	d.mux.Lock()
	defer d.mux.Unlock()

	if !d.dirty {
		return
	}

	d.invoke(d.clock.Now())
	d.clear()
}

// clear stops and clears any pending debounces, without resetting last call and
// invocation times. It should only be called while the mutex is already locked.
func (d *Debouncer) clear() {
	d.dirty = false
	d.maxTimer.Stop()
	d.timer.Stop()
}

// invoke executes the function and updates the last invoke time. It should only
// be called while the mutex is already locked.
func (d *Debouncer) invoke(now time.Time) {
	if f := d.fn; f != nil {
		d.lastInvoke = now
		go f()
	}
}
