// Package panel provides named log panels. Every line written to a panel is
// kept for display and mirrored to a zap logger.
package panel

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/romdo/go-pace/clock"
)

// Names of the panels used by the demo.
const (
	Debounce   = "debounce"
	Currying   = "currying"
	Async      = "async"
	Delegation = "delegation"
	Traversal  = "traversal"
	Fetch      = "fetch"
)

// DefaultNames lists the demo panels in display order.
var DefaultNames = []string{Debounce, Currying, Async, Delegation, Traversal, Fetch}

// DefaultMaxLines is used when a Set is created with a non-positive limit.
const DefaultMaxLines = 500

// Line is a single logged message.
type Line struct {
	At   time.Time `json:"at" yaml:"at"`
	Text string    `json:"text" yaml:"text"`
}

// Logger is what producers of panel output depend on.
type Logger interface {
	Log(args ...any)
}

// Panel is a bounded, concurrency safe list of lines.
type Panel struct {
	name     string
	maxLines int
	clock    clock.Clock
	logger   *zap.Logger

	mux   sync.RWMutex
	lines []Line
}

var _ Logger = (*Panel)(nil)

// Name returns the panel name.
func (p *Panel) Name() string {
	return p.name
}

// Log joins args with single spaces, appends the result to the panel and
// writes it to the logger. Once the panel holds maxLines lines, the oldest
// line is dropped.
func (p *Panel) Log(args ...any) {
	msg := Join(args...)
	line := Line{At: p.clock.Now(), Text: msg}

	p.mux.Lock()
	p.lines = append(p.lines, line)
	if over := len(p.lines) - p.maxLines; over > 0 {
		p.lines = append(p.lines[:0:0], p.lines[over:]...)
	}
	p.mux.Unlock()

	p.logger.Info(msg, zap.String("panel", p.name))
}

// Lines returns a copy of the panel's lines, oldest first.
func (p *Panel) Lines() []Line {
	p.mux.RLock()
	defer p.mux.RUnlock()

	return append([]Line(nil), p.lines...)
}

// Texts returns the text of each line, oldest first.
func (p *Panel) Texts() []string {
	lines := p.Lines()
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}

	return texts
}

// Clear removes all lines.
func (p *Panel) Clear() {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.lines = nil
}

// Join formats each argument with fmt.Sprint and joins them with spaces.
func Join(args ...any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}

	return strings.Join(parts, " ")
}

// Set is a collection of panels, keyed by name.
type Set struct {
	maxLines int
	clock    clock.Clock
	logger   *zap.Logger

	mux    sync.RWMutex
	panels map[string]*Panel
}

// Option configures a Set.
type Option func(*Set)

// WithClock sets the clock used to timestamp lines.
func WithClock(c clock.Clock) Option {
	return func(s *Set) {
		s.clock = c
	}
}

// WithMaxLines sets the number of lines each panel keeps.
func WithMaxLines(n int) Option {
	return func(s *Set) {
		s.maxLines = n
	}
}

// NewSet returns a Set holding the named panels. A nil logger discards the
// mirrored output.
func NewSet(logger *zap.Logger, names []string, opts ...Option) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Set{
		maxLines: DefaultMaxLines,
		clock:    clock.New(),
		logger:   logger,
		panels:   make(map[string]*Panel, len(names)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxLines <= 0 {
		s.maxLines = DefaultMaxLines
	}

	for _, name := range names {
		s.Add(name)
	}

	return s
}

// Add returns the named panel, creating it if needed.
func (s *Set) Add(name string) *Panel {
	s.mux.Lock()
	defer s.mux.Unlock()

	if p, ok := s.panels[name]; ok {
		return p
	}

	p := &Panel{
		name:     name,
		maxLines: s.maxLines,
		clock:    s.clock,
		logger:   s.logger,
	}
	s.panels[name] = p

	return p
}

// Get returns the named panel.
func (s *Set) Get(name string) (*Panel, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	p, ok := s.panels[name]

	return p, ok
}

// MustGet returns the named panel, and panics if it does not exist.
func (s *Set) MustGet(name string) *Panel {
	p, ok := s.Get(name)
	if !ok {
		panic(fmt.Sprintf("panel: unknown panel %q", name))
	}

	return p
}

// Names returns the sorted panel names.
func (s *Set) Names() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()

	names := make([]string, 0, len(s.panels))
	for name := range s.panels {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
