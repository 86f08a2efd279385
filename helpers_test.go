package pace

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romdo/go-pace/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recorder collects the arguments f was invoked with. Debounced functions
// invoke f on a new goroutine, so reads must go through waitFor.
type recorder struct {
	mux  sync.Mutex
	args []int64
}

func (r *recorder) record(arg int64) {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.args = append(r.args, arg)
}

func (r *recorder) snapshot() []int64 {
	r.mux.Lock()
	defer r.mux.Unlock()

	return append([]int64(nil), r.args...)
}

func (r *recorder) count() int {
	return len(r.snapshot())
}

// waitFor waits for the number of invocations to settle on want.
func (r *recorder) waitFor(t *testing.T, want int, msgAndArgs ...any) {
	t.Helper()

	require.Eventually(t, func() bool {
		return r.count() >= want
	}, time.Second, time.Millisecond, msgAndArgs...)

	// Give any stray invocation goroutine a moment to show up.
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, want, r.count(), msgAndArgs...)
}

type mockAction struct {
	call       bool
	reset      bool
	wantInvocs int
	wantLast   int64
}

type mockTestCase struct {
	name    string
	wait    time.Duration
	options []Option
	actions map[int64]mockAction
}

// runMockTestCases plays each test case's actions against a mock clock, in
// order of their millisecond offsets. Calls pass their offset as argument.
func runMockTestCases(t *testing.T, tests []mockTestCase) {
	t.Helper()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clk := clock.NewMock(epoch)
			rec := &recorder{}
			opts := append([]Option{WithClock(clk)}, tt.options...)
			debounced, cancel := Debounce(tt.wait, rec.record, opts...)

			offsets := make([]int64, 0, len(tt.actions))
			for ms := range tt.actions {
				offsets = append(offsets, ms)
			}
			sort.Slice(offsets, func(i, j int) bool {
				return offsets[i] < offsets[j]
			})

			for _, ms := range offsets {
				clk.Set(epoch.Add(time.Duration(ms) * time.Millisecond))

				act := tt.actions[ms]
				switch {
				case act.call:
					debounced(ms)
				case act.reset:
					cancel()
				default:
					rec.waitFor(t, act.wantInvocs, "at %dms", ms)
					if act.wantInvocs > 0 && act.wantLast != 0 {
						args := rec.snapshot()
						assert.Equal(t, act.wantLast, args[len(args)-1],
							"last argument at %dms", ms,
						)
					}
				}
			}
		})
	}
}
