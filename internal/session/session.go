// Package session is the orchestration layer: it owns the event store and
// the displayed-month cursor and recomputes the derived views from them.
package session

import (
	"fmt"
	"sync"
	"time"

	"monthcal/internal/calendar"
	"monthcal/internal/events"
	appLog "monthcal/internal/log"
	"monthcal/internal/model"
)

// Snapshot is everything presentation needs for one month. Each caller
// gets its own copy; mutating it does not touch the session's memo.
type Snapshot struct {
	Month     model.MonthView
	Conflicts calendar.ConflictSet
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Month:     s.Month,
		Conflicts: make(calendar.ConflictSet, len(s.Conflicts)),
	}
	for id := range s.Conflicts {
		out.Conflicts[id] = struct{}{}
	}
	out.Month.Cells = make([]model.Cell, len(s.Month.Cells))
	for i, c := range s.Month.Cells {
		c.Events = append([]model.Event(nil), c.Events...)
		out.Month.Cells[i] = c
	}
	return out
}

type viewKey struct {
	year, month int
	version     uint64
	today       model.Date
}

// Session holds one user's calendar state for the life of the process.
type Session struct {
	store   *events.Store
	builder calendar.Builder
	now     func() time.Time

	mu          sync.Mutex
	year, month int

	// Small memo of recent views; keys include the store version and
	// today's date so stale entries are never served.
	cache map[viewKey]Snapshot
}

// New returns a session whose cursor sits on the current month.
func New(store *events.Store, weekStart time.Weekday, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{
		store:   store,
		builder: calendar.Builder{WeekStart: weekStart, Now: now},
		now:     now,
		cache:   make(map[viewKey]Snapshot),
	}
	s.year, s.month = currentMonth(now())
	return s
}

func currentMonth(t time.Time) (int, int) {
	return t.Year(), int(t.Month()) - 1
}

func (s *Session) Store() *events.Store { return s.store }

func (s *Session) WeekStart() time.Weekday { return s.builder.WeekStart }

// Cursor returns the displayed (year, zero-based month).
func (s *Session) Cursor() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, s.month
}

// Navigate moves the cursor by delta months (-1 previous, +1 next).
func (s *Session) Navigate(delta int) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.year, s.month = calendar.Shift(s.year, s.month, delta)
	appLog.Debug("cursor moved", "year", s.year, "month", s.month, "delta", delta)
	return s.year, s.month
}

// GoToToday moves the cursor to the month containing the current date.
func (s *Session) GoToToday() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.year, s.month = currentMonth(s.now())
	return s.year, s.month
}

// SetMonth moves the cursor to an explicit month.
func (s *Session) SetMonth(year, month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: month index %d outside 0..11", model.ErrInvalidArgument, month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.year, s.month = year, month
	return nil
}

// AddEvent validates and appends a new event. Derived views pick it up on
// the next call because the store version changes.
func (s *Session) AddEvent(d events.Draft) (model.Event, error) {
	return s.store.Add(d)
}

// View returns the snapshot for the cursor month.
func (s *Session) View() (Snapshot, error) {
	y, m := s.Cursor()
	return s.MonthSnapshot(y, m)
}

// MonthSnapshot returns the snapshot for an arbitrary month without
// moving the cursor.
func (s *Session) MonthSnapshot(year, month int) (Snapshot, error) {
	key := viewKey{
		year:    year,
		month:   month,
		version: s.store.Version(),
		today:   model.DateOf(s.now()),
	}

	s.mu.Lock()
	snap, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return snap.clone(), nil
	}

	all := s.store.All()
	view, err := s.builder.BuildMonth(year, month, all)
	if err != nil {
		return Snapshot{}, err
	}
	snap = Snapshot{Month: view, Conflicts: calendar.FindConflicts(all)}

	s.mu.Lock()
	for k := range s.cache {
		if k.version != key.version || k.today != key.today {
			delete(s.cache, k)
		}
	}
	s.cache[key] = snap
	s.mu.Unlock()

	return snap.clone(), nil
}

// Conflicts returns the conflict set over the whole collection.
func (s *Session) Conflicts() calendar.ConflictSet {
	return calendar.FindConflicts(s.store.All())
}

// Invalidate drops every memoized view.
func (s *Session) Invalidate() {
	s.mu.Lock()
	n := len(s.cache)
	s.cache = make(map[viewKey]Snapshot)
	s.mu.Unlock()
	appLog.Debug("view cache invalidated", "entries", n)
}
