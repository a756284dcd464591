package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Service owns the canonical note collection and keeps it in sync with a Repository.
//
// Every mutation is computed on a copy of the collection and only becomes visible
// once the repository has saved it, so a failed write leaves the service unchanged.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	now      func() time.Time
	readOnly bool

	mu     sync.RWMutex
	notes  []Note
	loaded bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for debug traces.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock replaces time.Now as the source of update timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithServiceReadOnly rejects every mutation with ErrReadOnly.
func WithServiceReadOnly(readOnly bool) ServiceOption {
	return func(s *Service) {
		s.readOnly = readOnly
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the repository contents.
// Later records reusing an earlier title are dropped.
func (s *Service) Load(ctx context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.snapshotLocked(), nil
}

func (s *Service) loadLocked(ctx context.Context) error {
	notes, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(notes))
	unique := make([]Note, 0, len(notes))
	for _, n := range notes {
		if seen[n.Title] {
			s.debug("dropping duplicate title on load", "title", n.Title)
			continue
		}
		seen[n.Title] = true
		unique = append(unique, n)
	}

	s.notes = unique
	s.loaded = true
	s.debug("collection loaded", "notes", len(unique))
	return nil
}

func (s *Service) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// Save persists the current in-memory collection.
func (s *Service) Save(ctx context.Context) error {
	if s.readOnly {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	return s.repo.Save(ctx, s.snapshotLocked())
}

// Upsert creates a note or replaces the note with the same title.
// The note is stamped with the current time truncated to the minute.
// It reports whether a new note was appended.
func (s *Service) Upsert(ctx context.Context, title, body string) (Note, bool, error) {
	note := Note{
		Title: strings.TrimSpace(title),
		Body:  strings.TrimSpace(body),
	}
	if err := note.Validate(); err != nil {
		return Note{}, false, err
	}
	if s.readOnly {
		return Note{}, false, ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return Note{}, false, err
	}

	stamp := s.now().Truncate(time.Minute)
	note.UpdatedAt = &stamp

	next := s.snapshotLocked()
	isNew := true
	for i := range next {
		if next[i].Title == note.Title {
			next[i] = note
			isNew = false
			break
		}
	}
	if isNew {
		next = append(next, note)
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return Note{}, false, err
	}
	s.notes = next

	s.debug("note saved", "title", note.Title, "new", isNew)
	return note, isNew, nil
}

// Delete removes the note with the given title.
// It reports false, without touching the repository, when no such note exists.
func (s *Service) Delete(ctx context.Context, title string) (bool, error) {
	if s.readOnly {
		return false, ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return false, err
	}

	idx := s.indexLocked(title)
	if idx < 0 {
		return false, nil
	}

	next := make([]Note, 0, len(s.notes)-1)
	next = append(next, s.notes[:idx]...)
	next = append(next, s.notes[idx+1:]...)

	if err := s.repo.Save(ctx, next); err != nil {
		return false, err
	}
	s.notes = next

	s.debug("note deleted", "title", title)
	return true, nil
}

// ClearAll removes every note and empties the backing store.
func (s *Service) ClearAll(ctx context.Context) error {
	if s.readOnly {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, nil); err != nil {
		return err
	}
	s.notes = nil
	s.loaded = true

	s.debug("collection cleared")
	return nil
}

// ListTitles returns the titles in collection order.
func (s *Service) ListTitles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make([]string, len(s.notes))
	for i, n := range s.notes {
		titles[i] = n.Title
	}
	return titles
}

// Get looks a note up by exact title.
func (s *Service) Get(title string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(title); idx >= 0 {
		return s.notes[idx], true
	}
	return Note{}, false
}

// Notes returns a copy of the collection.
func (s *Service) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of notes in the collection.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Search filters the collection, see Search.
func (s *Service) Search(query string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Search(s.notes, query)
}

// Watch observes changes made to the backing store by other writers.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) indexLocked(title string) int {
	for i, n := range s.notes {
		if n.Title == title {
			return i
		}
	}
	return -1
}

func (s *Service) snapshotLocked() []Note {
	return append([]Note(nil), s.notes...)
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
