package pace

import (
	"time"

	"github.com/romdo/go-pace/clock"
)

const longDelay = 24 * time.Hour

// stoppedTimer returns a stopped timer created with c.AfterFunc. The given
// function is not called until the timer is restarted with Reset.
func stoppedTimer(c clock.Clock, f func()) clock.Timer {
	t := c.AfterFunc(longDelay, f)
	t.Stop()

	return t
}
