package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMock_AfterFunc(t *testing.T) {
	t.Parallel()

	m := NewMock(epoch)
	var fired []time.Duration

	m.AfterFunc(300*time.Millisecond, func() {
		fired = append(fired, m.Since(epoch))
	})
	m.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, m.Since(epoch))
	})

	m.Add(99 * time.Millisecond)
	assert.Empty(t, fired)
	assert.Equal(t, 2, m.Pending())

	m.Add(time.Second)
	assert.Equal(t,
		[]time.Duration{100 * time.Millisecond, 300 * time.Millisecond},
		fired,
	)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 1099*time.Millisecond, m.Since(epoch))
}

func TestMock_equalExpiryFiresInScheduleOrder(t *testing.T) {
	t.Parallel()

	m := NewMock(epoch)
	var order []string

	m.AfterFunc(time.Second, func() { order = append(order, "a") })
	m.AfterFunc(time.Second, func() { order = append(order, "b") })
	m.AfterFunc(time.Second, func() { order = append(order, "c") })

	m.Add(time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestMockTimer_StopAndReset(t *testing.T) {
	t.Parallel()

	m := NewMock(epoch)
	n := 0
	timer := m.AfterFunc(time.Second, func() { n++ })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Add(2 * time.Second)
	assert.Equal(t, 0, n)

	assert.False(t, timer.Reset(time.Second))
	assert.True(t, timer.Reset(time.Second))

	m.Add(999 * time.Millisecond)
	assert.Equal(t, 0, n)

	m.Add(time.Millisecond)
	assert.Equal(t, 1, n)
}

func TestMock_callbackCanRescheduleItself(t *testing.T) {
	t.Parallel()

	m := NewMock(epoch)
	n := 0

	var timer Timer
	timer = m.AfterFunc(time.Second, func() {
		n++
		timer.Reset(time.Second)
	})

	m.Add(5500 * time.Millisecond)

	assert.Equal(t, 5, n)
	assert.Equal(t, 1, m.Pending())
}

func TestMock_SetBackwards(t *testing.T) {
	t.Parallel()

	m := NewMock(epoch)
	m.Set(epoch.Add(-time.Minute))

	assert.Equal(t, epoch.Add(-time.Minute), m.Now())
}

func TestReal(t *testing.T) {
	t.Parallel()

	c := New()
	done := make(chan struct{})

	before := c.Now()
	c.AfterFunc(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	assert.GreaterOrEqual(t, time.Since(before), 10*time.Millisecond)
}
