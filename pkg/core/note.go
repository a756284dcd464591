package core

import (
	"fmt"
	"strings"
	"time"
)

// Note is the central entity of the domain.
// It is a short piece of text identified by its title.
// It is agnostic to storage format.
type Note struct {
	Title     string     `json:"title" yaml:"title"`
	Body      string     `json:"body" yaml:"body"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Validate reports whether the note is acceptable as new content.
// Title and body must be non-blank and the title must fit on a single line.
// Records loaded from disk are not held to the body rule.
func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidNote)
	}
	if strings.ContainsAny(n.Title, "\r\n") {
		return fmt.Errorf("%w: title must be a single line", ErrInvalidNote)
	}
	if strings.TrimSpace(n.Body) == "" {
		return fmt.Errorf("%w: body of %q is empty", ErrInvalidNote, n.Title)
	}
	return nil
}

// Equal compares two notes field by field, timestamps by instant.
func (n Note) Equal(o Note) bool {
	if n.Title != o.Title || n.Body != o.Body {
		return false
	}
	if n.UpdatedAt == nil || o.UpdatedAt == nil {
		return n.UpdatedAt == nil && o.UpdatedAt == nil
	}
	return n.UpdatedAt.Equal(*o.UpdatedAt)
}

// EventType represents the type of change observed on the backing store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change made to the backing store by someone else.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
