// Package calendar builds month grids and detects same-day overlaps.
// Everything here is pure: callers pass the event list and the current
// time, nothing is cached.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"monthcal/internal/model"
)

// DefaultWeekStart is the first column of every grid unless a Builder
// overrides it.
const DefaultWeekStart = time.Sunday

// Builder produces month grids with a fixed week start and clock.
type Builder struct {
	// WeekStart is the weekday of the first cell of every row.
	WeekStart time.Weekday

	// Now supplies the current time for the IsToday flag. If nil,
	// time.Now is used.
	Now func() time.Time
}

// BuildMonth builds the grid for a zero-based month with Sunday as the
// first day of the week.
func BuildMonth(year, month int, events []model.Event, now time.Time) (model.MonthView, error) {
	b := Builder{WeekStart: DefaultWeekStart, Now: func() time.Time { return now }}
	return b.BuildMonth(year, month, events)
}

// BuildMonth returns the cells from the first day of the week containing
// the 1st of the month through the last day of the week containing the
// month's last day. Events land in the cell whose date equals theirs, in
// source order.
func (b Builder) BuildMonth(year, month int, events []model.Event) (model.MonthView, error) {
	if month < 0 || month > 11 {
		return model.MonthView{}, fmt.Errorf("%w: month index %d outside 0..11", model.ErrInvalidArgument, month)
	}
	if b.WeekStart < time.Sunday || b.WeekStart > time.Saturday {
		return model.MonthView{}, fmt.Errorf("%w: week start %d", model.ErrInvalidArgument, b.WeekStart)
	}

	nowFn := b.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	today := model.DateOf(nowFn())

	first := model.Date{Year: year, Month: time.Month(month + 1), Day: 1}
	last := first.Time().AddDate(0, 1, -1)
	start := first.AddDays(-leadingDays(first.Weekday(), b.WeekStart))
	end := model.DateOf(last).AddDays(trailingDays(last.Weekday(), b.WeekStart))

	byDate := bucketByDate(events)

	cells := make([]model.Cell, 0, 42)
	for d := start; !end.Before(d); d = d.AddDays(1) {
		cells = append(cells, model.Cell{
			Date:           d,
			DayNumber:      d.Day,
			IsCurrentMonth: d.Year == year && d.Month == first.Month,
			IsToday:        d == today,
			Events:         byDate[d],
		})
	}

	return model.MonthView{Year: year, Month: month, Cells: cells}, nil
}

// leadingDays is how many days precede wd in a week starting at weekStart.
func leadingDays(wd, weekStart time.Weekday) int {
	return (int(wd) - int(weekStart) + 7) % 7
}

// trailingDays is how many days follow wd until the end of the week.
func trailingDays(wd, weekStart time.Weekday) int {
	return 6 - leadingDays(wd, weekStart)
}

func bucketByDate(events []model.Event) map[model.Date][]model.Event {
	out := make(map[model.Date][]model.Event)
	for _, ev := range events {
		out[ev.Date] = append(out[ev.Date], ev)
	}
	return out
}

// Shift moves a zero-based (year, month) cursor by delta months, rolling
// the year as needed.
func Shift(year, month, delta int) (int, int) {
	total := year*12 + month + delta
	y, m := total/12, total%12
	if m < 0 {
		m += 12
		y--
	}
	return y, m
}

// MonthName returns the English name of a zero-based month.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return time.Month(month + 1).String()
}

// WeekdayHeaders returns three-letter weekday labels starting at weekStart.
func WeekdayHeaders(weekStart time.Weekday) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return out
}

// ParseWeekStart maps "sunday"/"monday" (any case) to a weekday.
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("%w: week start %q", model.ErrInvalidArgument, s)
	}
}
