package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/romdo/go-pace/clock"
	"github.com/romdo/go-pace/internal/panel"
)

// DefaultTraversalInterval is how often Watch logs the list contents.
const DefaultTraversalInterval = 5 * time.Second

// Handle is a note of a TraversalList together with its own delete action.
type Handle struct {
	Note

	once   sync.Once
	delete func()
}

// Delete removes the note from its list. Only the first call has an effect;
// later calls return ErrNotFound.
func (h *Handle) Delete() error {
	err := ErrNotFound
	h.once.Do(func() {
		h.delete()
		err = nil
	})

	return err
}

// TraversalList is a note list where every note carries its own delete
// handle.
type TraversalList struct {
	log   panel.Logger
	clock clock.Clock

	mux     sync.RWMutex
	handles []*Handle
}

// NewTraversalList returns an empty list logging to log. A nil clock uses
// the real clock.
func NewTraversalList(log panel.Logger, c clock.Clock) *TraversalList {
	if c == nil {
		c = clock.New()
	}

	return &TraversalList{log: log, clock: c}
}

// Add appends a note with the trimmed text, and returns its handle.
func (l *TraversalList) Add(text string) (*Handle, error) {
	n, err := newNote(text, l.clock.Now())
	if err != nil {
		return nil, err
	}

	h := &Handle{Note: n}
	h.delete = func() {
		l.detach(h)
		l.log.Log("Note deleted (Traversal):", n.Text)
	}

	l.mux.Lock()
	l.handles = append(l.handles, h)
	l.mux.Unlock()

	l.log.Log("Note added (Traversal):", n.Text)

	return h, nil
}

// Lookup returns the handle of the note with id.
func (l *TraversalList) Lookup(id uuid.UUID) (*Handle, bool) {
	l.mux.RLock()
	defer l.mux.RUnlock()

	for _, h := range l.handles {
		if h.ID == id {
			return h, true
		}
	}

	return nil, false
}

// Notes returns a copy of the notes in insertion order.
func (l *TraversalList) Notes() []Note {
	l.mux.RLock()
	defer l.mux.RUnlock()

	notes := make([]Note, len(l.handles))
	for i, h := range l.handles {
		notes[i] = h.Note
	}

	return notes
}

// LogContents logs every note currently in the list.
func (l *TraversalList) LogContents() {
	for _, n := range l.Notes() {
		l.log.Log("Traversal Note Log:", n.Text)
	}
}

// Watch calls LogContents every interval until ctx is done. It blocks, and
// returns ctx.Err().
func (l *TraversalList) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTraversalInterval
	}

	tick := make(chan struct{}, 1)
	t := l.clock.AfterFunc(interval, func() {
		select {
		case tick <- struct{}{}:
		default:
		}
	})
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			l.LogContents()
			t.Reset(interval)
		}
	}
}

func (l *TraversalList) detach(h *Handle) {
	l.mux.Lock()
	defer l.mux.Unlock()

	for i, x := range l.handles {
		if x == h {
			l.handles = append(l.handles[:i], l.handles[i+1:]...)

			return
		}
	}
}
