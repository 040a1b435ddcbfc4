package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidArgument marks contract violations: bad month index,
	// malformed date or time text.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidationFailed marks a rejected event submission.
	ErrValidationFailed = errors.New("validation failed")
)

// Category is the fixed set of event kinds.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryMeeting  Category = "meeting"
	CategoryReminder Category = "reminder"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryMeeting,
	CategoryReminder,
	CategoryOther,
}

// ParseCategory accepts a category name case-insensitively. Empty input
// yields CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, s)
}

// Event is a single scheduled item on one calendar day.
// Start is always strictly before End; constructors enforce it.
type Event struct {
	ID          string
	Title       string
	Date        Date
	Start       TimeOfDay
	End         TimeOfDay
	Description string
	Category    Category
}

// DurationMinutes is derived from Start/End on every call and never stored.
func (e Event) DurationMinutes() int {
	return int(e.End - e.Start)
}

func (e Event) Duration() time.Duration {
	return time.Duration(e.DurationMinutes()) * time.Minute
}

// Cell is one day in a month grid.
type Cell struct {
	Date           Date
	DayNumber      int
	IsCurrentMonth bool
	IsToday        bool
	// Events keeps the order of the source list.
	Events []Event
}

// MonthView is a month grid spanning whole weeks. Month is zero-based.
type MonthView struct {
	Year  int
	Month int
	Cells []Cell
}

// Weeks returns the cells split into rows of seven.
func (v MonthView) Weeks() [][]Cell {
	rows := make([][]Cell, 0, len(v.Cells)/7)
	for i := 0; i+7 <= len(v.Cells); i += 7 {
		rows = append(rows, v.Cells[i:i+7])
	}
	return rows
}
