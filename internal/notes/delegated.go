package notes

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/romdo/go-pace/clock"
	"github.com/romdo/go-pace/internal/panel"
)

// Action is what an Event asks the list to do.
type Action string

const ActionDelete Action = "delete"

// Event is delivered to a DelegatedList's dispatcher, naming the note it
// targets.
type Event struct {
	Target uuid.UUID
	Action Action
}

// DelegatedList is a note list with one event dispatcher for all notes.
type DelegatedList struct {
	log   panel.Logger
	clock clock.Clock

	mux   sync.RWMutex
	notes []Note
}

// NewDelegatedList returns an empty list logging to log. A nil clock uses
// the real clock.
func NewDelegatedList(log panel.Logger, c clock.Clock) *DelegatedList {
	if c == nil {
		c = clock.New()
	}

	return &DelegatedList{log: log, clock: c}
}

// Add appends a note with the trimmed text.
func (l *DelegatedList) Add(text string) (Note, error) {
	n, err := newNote(text, l.clock.Now())
	if err != nil {
		return Note{}, err
	}

	l.mux.Lock()
	l.notes = append(l.notes, n)
	l.mux.Unlock()

	l.log.Log("Note added:", n.Text)

	return n, nil
}

// Dispatch handles an event targeting any note of the list.
func (l *DelegatedList) Dispatch(ev Event) error {
	switch ev.Action {
	case ActionDelete:
		n, err := l.remove(ev.Target)
		if err != nil {
			return err
		}
		l.log.Log("Note deleted:", n.Text)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
	}
}

// Notes returns a copy of the notes in insertion order.
func (l *DelegatedList) Notes() []Note {
	l.mux.RLock()
	defer l.mux.RUnlock()

	return append([]Note(nil), l.notes...)
}

func (l *DelegatedList) remove(id uuid.UUID) (Note, error) {
	l.mux.Lock()
	defer l.mux.Unlock()

	for i, n := range l.notes {
		if n.ID == id {
			l.notes = append(l.notes[:i], l.notes[i+1:]...)

			return n, nil
		}
	}

	return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
