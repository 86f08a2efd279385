// Package colors changes the color of a heading through a sequence of
// delayed steps, any of which can fail like a flaky network call.
package colors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/romdo/go-pace/clock"
	"github.com/romdo/go-pace/internal/panel"
)

// ErrNetwork is returned by a step which failed its network roll.
var ErrNetwork = errors.New("color not changed (network issue)")

// DefaultSequence is the order colors are applied in by Run.
var DefaultSequence = []string{"yellow", "pink", "green", "purple", "cyan"}

// DefaultDelay is the time each step takes.
const DefaultDelay = time.Second

// Heading holds the current color of the heading.
type Heading struct {
	mux   sync.RWMutex
	color string
}

func (h *Heading) Color() string {
	h.mux.RLock()
	defer h.mux.RUnlock()

	return h.color
}

func (h *Heading) SetColor(color string) {
	h.mux.Lock()
	defer h.mux.Unlock()

	h.color = color
}

// Changer runs color sequences against a Heading.
type Changer struct {
	heading  *Heading
	log      panel.Logger
	clock    clock.Clock
	roll     func() int
	sequence []string
	delay    time.Duration
}

// Option configures a Changer.
type Option func(*Changer)

// WithClock sets the clock used for step delays.
func WithClock(c clock.Clock) Option {
	return func(ch *Changer) {
		ch.clock = c
	}
}

// WithRoll replaces the network roll. Steps fail when roll returns 1 or
// less; the default rolls uniformly between 1 and 10.
func WithRoll(roll func() int) Option {
	return func(ch *Changer) {
		ch.roll = roll
	}
}

// WithSequence sets the colors applied by Run, and the delay of each step.
func WithSequence(delay time.Duration, colors ...string) Option {
	return func(ch *Changer) {
		ch.delay = delay
		ch.sequence = colors
	}
}

// NewChanger returns a Changer for h, logging to log.
func NewChanger(h *Heading, log panel.Logger, opts ...Option) *Changer {
	c := &Changer{
		heading:  h,
		log:      log,
		clock:    clock.New(),
		roll:     func() int { return rand.Intn(10) + 1 },
		sequence: DefaultSequence,
		delay:    DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Change sets the heading to color after delay. A failed network roll
// returns ErrNetwork straight away without waiting.
func (c *Changer) Change(
	ctx context.Context,
	color string,
	delay time.Duration,
) (string, error) {
	if c.roll() <= 1 {
		return "", ErrNetwork
	}

	if err := sleep(ctx, c.clock, delay); err != nil {
		return "", err
	}

	c.heading.SetColor(color)

	return fmt.Sprintf("Color changed to %s", color), nil
}

// Run applies each color of the sequence in turn, logging the outcome of
// every step. It stops at the first failure, which is logged and returned.
// "Finally block executed." is logged whatever the outcome.
func (c *Changer) Run(ctx context.Context) error {
	defer c.log.Log("Finally block executed.")

	for _, color := range c.sequence {
		msg, err := c.Change(ctx, color, c.delay)
		if err != nil {
			c.log.Log("Error caught:", err)

			return fmt.Errorf("changing color to %s: %w", color, err)
		}

		c.log.Log(msg)
	}

	c.log.Log("No error encountered, catch block won't execute")

	return nil
}

func sleep(ctx context.Context, c clock.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	done := make(chan struct{})
	t := c.AfterFunc(d, func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.Stop()

		return ctx.Err()
	}
}
