package calendar

import (
	"sort"

	"monthcal/internal/model"
)

// ConflictSet holds the IDs of events that overlap at least one other
// event on the same date. It answers membership only.
type ConflictSet map[string]struct{}

// Has reports whether id conflicts with another event.
func (s ConflictSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len is the number of conflicting events.
func (s ConflictSet) Len() int {
	return len(s)
}

// IDs returns the members in ascending order.
func (s ConflictSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// FindConflicts compares every pair of events sharing a date and marks
// both when their [start, end) intervals intersect. An event ending at
// the minute another starts does not conflict.
func FindConflicts(events []model.Event) ConflictSet {
	out := make(ConflictSet)

	byDate := bucketByDate(events)
	for _, day := range byDate {
		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				if Overlaps(day[i], day[j]) {
					out[day[i].ID] = struct{}{}
					out[day[j].ID] = struct{}{}
				}
			}
		}
	}

	return out
}

// Overlaps reports whether a and b share a date and their half-open time
// intervals intersect.
func Overlaps(a, b model.Event) bool {
	if a.Date != b.Date {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}
