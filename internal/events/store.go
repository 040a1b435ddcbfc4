// Package events owns the session's event collection: validation of new
// submissions, ID assignment and loading the static seed file.
package events

import (
	"errors"
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	appLog "monthcal/internal/log"
	"monthcal/internal/model"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns a fresh "event-" prefixed identifier.
func GenerateID() (string, error) {
	id, err := gonanoid.Generate(idAlphabet, 12)
	if err != nil {
		return "", err
	}
	return "event-" + id, nil
}

// Store is the append-only, ordered event collection for one session.
// There is no update or delete. Reads return copies.
type Store struct {
	mu      sync.RWMutex
	events  []model.Event
	ids     map[string]struct{}
	version uint64

	// newID is swapped in tests.
	newID func() (string, error)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ids:   make(map[string]struct{}),
		newID: GenerateID,
	}
}

// Seed appends preloaded events, keeping their IDs. The whole batch is
// rejected if any ID is empty or already present, or any time range is
// not strictly increasing.
func (s *Store) Seed(events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(events))
	for i, ev := range events {
		if ev.ID == "" {
			return fmt.Errorf("%w: event %d has no id", model.ErrInvalidArgument, i)
		}
		if _, dup := s.ids[ev.ID]; dup {
			return fmt.Errorf("%w: duplicate event id %q", model.ErrInvalidArgument, ev.ID)
		}
		if _, dup := seen[ev.ID]; dup {
			return fmt.Errorf("%w: duplicate event id %q", model.ErrInvalidArgument, ev.ID)
		}
		if ev.End <= ev.Start {
			return fmt.Errorf("%w: event %q ends before it starts", model.ErrValidationFailed, ev.ID)
		}
		seen[ev.ID] = struct{}{}
	}

	for _, ev := range events {
		s.events = append(s.events, ev)
		s.ids[ev.ID] = struct{}{}
	}
	s.version++
	return nil
}

// Add validates a draft and, on success, appends it with a generated ID.
// A rejected draft returns a *ValidationError and leaves the store as is.
func (s *Store) Add(d Draft) (model.Event, error) {
	ev, ferrs := Validate(d)
	if len(ferrs) > 0 {
		return model.Event{}, &ValidationError{Fields: ferrs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return model.Event{}, err
	}
	ev.ID = id

	s.events = append(s.events, ev)
	s.ids[id] = struct{}{}
	s.version++

	appLog.Info("event added",
		"id", ev.ID,
		"date", ev.Date,
		"start", ev.Start,
		"end", ev.End,
		"duration", model.FormatDuration(ev.DurationMinutes()),
		"category", ev.Category,
	)
	return ev, nil
}

// uniqueID must be called with s.mu held.
func (s *Store) uniqueID() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if _, taken := s.ids[id]; !taken {
			return id, nil
		}
	}
	return "", errors.New("generate id: exhausted attempts")
}

// All returns a copy of the events in insertion order.
func (s *Store) All() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) Get(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.Event{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Version increases on every successful mutation. Derived views use it to
// tell whether they are stale.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
