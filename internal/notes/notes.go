// Package notes implements two note lists. DelegatedList routes every delete
// through a single list-level dispatcher, while TraversalList hands each note
// its own delete handle and periodically walks the list to log its contents.
package notes

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyText is returned when adding a note with blank text.
	ErrEmptyText = errors.New("note text is empty")

	// ErrNotFound is returned when a note does not exist.
	ErrNotFound = errors.New("note not found")

	// ErrUnknownAction is returned by Dispatch for unsupported actions.
	ErrUnknownAction = errors.New("unknown note action")
)

// Note is a single entry of a list.
type Note struct {
	ID      uuid.UUID `json:"id" yaml:"id"`
	Text    string    `json:"text" yaml:"text"`
	Created time.Time `json:"created" yaml:"created"`
}

func newNote(text string, now time.Time) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrEmptyText
	}

	return Note{ID: uuid.New(), Text: text, Created: now}, nil
}
