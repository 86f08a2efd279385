// Package pace provides functions to debounce and throttle function calls.
//
// Debouncing ensures that a function is only executed after a certain amount
// of time has passed since the last call. Throttling ensures that a function
// is executed at most once per interval, dropping calls in between.
//
// Both can be useful in scenarios where function calls may be triggered
// rapidly, such as in response to user input, but the underlying operation is
// expensive and only needs to be performed once per batch of calls.
package pace

import (
	"time"
)

// New returns a debounced function that delays invoking f until after wait time
// has elapsed since the last time the debounced function was invoked.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
//
// Both debounced and cancel functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
//
// The debounced function does not wait for f to complete, so f needs to be
// thread-safe as it may be invoked again before the previous invocation
// completes.
func New(
	wait time.Duration,
	f func(),
	opts ...Option,
) (debounced func(), cancel func()) {
	d := NewDebouncer(wait, f, opts...)

	return d.Debounce, d.Reset
}

// NewWithMaxWait returns a debounced function like New, but with a maximum wait
// time of maxWait, which is the maximum time f is allowed to be delayed before
// it is invoked.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
func NewWithMaxWait(
	wait, maxWait time.Duration,
	f func(),
	opts ...Option,
) (debounced func(), cancel func()) {
	return New(wait, f, append(opts, WithMaxWait(maxWait))...)
}

// Debounce returns a debounced function like New, which forwards the argument
// of the last call within the wait window to f. Functions taking several
// arguments can be debounced by bundling them into a struct.
//
// With a wait of zero or less, every call invokes f.
func Debounce[T any](
	wait time.Duration,
	f func(T),
	opts ...Option,
) (debounced func(T), cancel func()) {
	d := NewDebouncer(wait, nil, opts...)

	debounced = func(arg T) {
		d.DebounceWith(func() { f(arg) })
	}

	return debounced, d.Reset
}
