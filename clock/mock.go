package clock

import (
	"sort"
	"sync"
	"time"
)

// Mock is a manually advanced Clock. Timer callbacks run synchronously on
// the goroutine calling Add or Set, in order of expiry, with Now reporting
// each timer's expiry time while its callback runs.
type Mock struct {
	mux    sync.Mutex
	now    time.Time
	seq    uint64
	timers []*mockTimer
}

var _ Clock = (*Mock)(nil)

// NewMock returns a Mock clock set to start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mux.Lock()
	defer m.mux.Unlock()

	return m.now
}

// Since returns the time elapsed on the mock clock since t.
func (m *Mock) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

func (m *Mock) AfterFunc(d time.Duration, f func()) Timer {
	m.mux.Lock()
	defer m.mux.Unlock()

	t := &mockTimer{mock: m, f: f}
	t.arm(d)
	m.timers = append(m.timers, t)

	return t
}

// Add advances the clock by d, firing every timer that expires on the way.
func (m *Mock) Add(d time.Duration) {
	m.Set(m.Now().Add(d))
}

// Set advances the clock to t, firing every timer that expires on the way.
// Setting a time before the current time moves the clock backwards without
// firing anything.
func (m *Mock) Set(t time.Time) {
	for {
		m.mux.Lock()
		next := m.next(t)
		if next == nil {
			m.now = t
			m.mux.Unlock()

			return
		}

		if next.when.After(m.now) {
			m.now = next.when
		}
		next.active = false
		f := next.f
		m.mux.Unlock()

		f()
	}
}

// Pending returns the number of active timers.
func (m *Mock) Pending() int {
	m.mux.Lock()
	defer m.mux.Unlock()

	n := 0
	for _, t := range m.timers {
		if t.active {
			n++
		}
	}

	return n
}

// next returns the earliest active timer due at or before until. It must be
// called with the mutex held.
func (m *Mock) next(until time.Time) *mockTimer {
	due := make([]*mockTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if t.active && !t.when.After(until) {
			due = append(due, t)
		}
	}

	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].when.Equal(due[j].when) {
			return due[i].seq < due[j].seq
		}

		return due[i].when.Before(due[j].when)
	})

	return due[0]
}

type mockTimer struct {
	mock   *Mock
	f      func()
	when   time.Time
	seq    uint64
	active bool
}

// arm schedules the timer d after the current mock time. It must be called
// with the mock's mutex held.
func (t *mockTimer) arm(d time.Duration) {
	t.mock.seq++
	t.seq = t.mock.seq
	t.when = t.mock.now.Add(d)
	t.active = true
}

func (t *mockTimer) Stop() bool {
	t.mock.mux.Lock()
	defer t.mock.mux.Unlock()

	wasActive := t.active
	t.active = false

	return wasActive
}

func (t *mockTimer) Reset(d time.Duration) bool {
	t.mock.mux.Lock()
	defer t.mock.mux.Unlock()

	wasActive := t.active
	t.arm(d)

	return wasActive
}
