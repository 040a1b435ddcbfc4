package calendar

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"monthcal/internal/model"
)

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 15, 4, 0, 0, time.UTC) }
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func ev(t *testing.T, id, date, start, end string) model.Event {
	t.Helper()
	s, err := model.ParseTimeOfDay(start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := model.ParseTimeOfDay(end)
	if err != nil {
		t.Fatal(err)
	}
	return model.Event{ID: id, Title: id, Date: mustDate(t, date), Start: s, End: e, Category: model.CategoryOther}
}

func TestBuildMonthShapeForAllMonths(t *testing.T) {
	for _, ws := range []time.Weekday{time.Sunday, time.Monday} {
		b := Builder{WeekStart: ws, Now: fixedNow(2024, time.May, 1)}
		for year := 2020; year <= 2030; year++ {
			for month := 0; month < 12; month++ {
				v, err := b.BuildMonth(year, month, nil)
				if err != nil {
					t.Fatalf("BuildMonth(%d, %d): %v", year, month, err)
				}
				n := len(v.Cells)
				if n%7 != 0 || n < 28 || n > 42 {
					t.Fatalf("%d-%02d week start %v: %d cells", year, month+1, ws, n)
				}
				if got := v.Cells[0].Date.Weekday(); got != ws {
					t.Fatalf("%d-%02d: first cell on %v, want %v", year, month+1, got, ws)
				}
				wantLast := time.Weekday((int(ws) + 6) % 7)
				if got := v.Cells[n-1].Date.Weekday(); got != wantLast {
					t.Fatalf("%d-%02d: last cell on %v, want %v", year, month+1, got, wantLast)
				}
				for i := 1; i < n; i++ {
					if v.Cells[i].Date != v.Cells[i-1].Date.AddDays(1) {
						t.Fatalf("%d-%02d: cells not consecutive at %d", year, month+1, i)
					}
				}
			}
		}
	}
}

func TestBuildMonthLeapFebruary(t *testing.T) {
	v, err := BuildMonth(2024, 1, nil, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	current := 0
	for _, c := range v.Cells {
		if c.IsCurrentMonth {
			current++
		}
	}
	if current != 29 {
		t.Fatalf("February 2024 current-month cells = %d, want 29", current)
	}
	if v.Year != 2024 || v.Month != 1 {
		t.Fatalf("view header = %d/%d", v.Year, v.Month)
	}
	// 2024-02-01 is a Thursday: four leading days from January.
	if v.Cells[0].Date != mustDate(t, "2024-01-28") || v.Cells[0].IsCurrentMonth {
		t.Fatalf("unexpected first cell %+v", v.Cells[0])
	}
}

func TestBuildMonthFourWeeks(t *testing.T) {
	// February 2015 starts on Sunday and has 28 days.
	v, err := BuildMonth(2015, 1, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Cells) != 28 {
		t.Fatalf("February 2015 cells = %d, want 28", len(v.Cells))
	}
	if !v.Cells[0].IsCurrentMonth || v.Cells[0].DayNumber != 1 {
		t.Fatalf("expected no leading filler, got %+v", v.Cells[0])
	}
	if len(v.Weeks()) != 4 {
		t.Fatalf("Weeks() = %d rows", len(v.Weeks()))
	}
}

func TestBuildMonthSixWeeks(t *testing.T) {
	// August 2026 starts on Saturday and has 31 days.
	v, err := BuildMonth(2026, 7, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Cells) != 42 {
		t.Fatalf("August 2026 cells = %d, want 42", len(v.Cells))
	}
}

func TestBuildMonthZeroLeadingWithTrailing(t *testing.T) {
	// September 2024 starts on Sunday and ends on Monday.
	v, err := BuildMonth(2024, 8, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !v.Cells[0].IsCurrentMonth {
		t.Fatal("expected first cell to belong to September")
	}
	last := v.Cells[len(v.Cells)-1]
	if last.IsCurrentMonth || last.Date != mustDate(t, "2024-10-05") {
		t.Fatalf("unexpected trailing cell %+v", last)
	}
}

func TestBuildMonthToday(t *testing.T) {
	b := Builder{WeekStart: time.Sunday, Now: fixedNow(2024, time.May, 15)}

	v, err := b.BuildMonth(2024, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	var todays []model.Date
	for _, c := range v.Cells {
		if c.IsToday {
			todays = append(todays, c.Date)
		}
	}
	if len(todays) != 1 || todays[0] != mustDate(t, "2024-05-15") {
		t.Fatalf("today cells = %v", todays)
	}

	// Today shows up as a filler day in the adjacent month's grid too.
	b.Now = fixedNow(2024, time.June, 1)
	v, err = b.BuildMonth(2024, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range v.Cells {
		if c.IsToday {
			found = true
			if c.IsCurrentMonth {
				t.Fatal("June 1 must not be flagged as a May day")
			}
		}
	}
	if !found {
		t.Fatal("expected June 1 filler cell to be today")
	}

	// Far away month: no today cell.
	v, err = b.BuildMonth(2023, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range v.Cells {
		if c.IsToday {
			t.Fatalf("unexpected today cell %v", c.Date)
		}
	}
}

func TestBuildMonthTodayUsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2024-05-14T20:00Z is already May 15 at UTC+9.
	now := time.Date(2024, time.May, 14, 20, 0, 0, 0, time.UTC).In(loc)
	v, err := BuildMonth(2024, 4, nil, now)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range v.Cells {
		if c.IsToday && c.Date != mustDate(t, "2024-05-15") {
			t.Fatalf("today = %v, want 2024-05-15", c.Date)
		}
	}
}

func TestBuildMonthBucketsEventsInOrder(t *testing.T) {
	events := []model.Event{
		ev(t, "late", "2024-05-01", "15:00", "16:00"),
		ev(t, "other-day", "2024-05-02", "09:00", "10:00"),
		ev(t, "early", "2024-05-01", "08:00", "09:00"),
		ev(t, "filler", "2024-04-30", "08:00", "09:00"),
		ev(t, "outside", "2024-07-01", "08:00", "09:00"),
	}
	v, err := BuildMonth(2024, 4, events, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	got := map[string][]string{}
	total := 0
	for _, c := range v.Cells {
		for _, e := range c.Events {
			got[c.Date.String()] = append(got[c.Date.String()], e.ID)
			total++
		}
	}
	want := map[string][]string{
		"2024-04-30": {"filler"},
		"2024-05-01": {"late", "early"},
		"2024-05-02": {"other-day"},
	}
	if !reflect.DeepEqual(got, want) || total != 4 {
		t.Fatalf("bucketed events = %v, want %v", got, want)
	}
}

func TestBuildMonthDeterministic(t *testing.T) {
	events := []model.Event{ev(t, "a", "2024-05-01", "09:00", "10:00")}
	now := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	a, err := BuildMonth(2024, 4, events, now)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildMonth(2024, 4, events, now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different grids")
	}
}

func TestBuildMonthInvalidMonth(t *testing.T) {
	for _, m := range []int{-1, 12, 100} {
		_, err := BuildMonth(2024, m, nil, time.Now())
		if !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("BuildMonth(2024, %d) err = %v, want ErrInvalidArgument", m, err)
		}
	}
}

func TestShift(t *testing.T) {
	cases := []struct {
		y, m, delta int
		wy, wm      int
	}{
		{2024, 0, -1, 2023, 11},
		{2024, 11, 1, 2025, 0},
		{2024, 4, 0, 2024, 4},
		{2024, 4, 25, 2026, 5},
		{2024, 4, -17, 2022, 11},
	}
	for _, c := range cases {
		y, m := Shift(c.y, c.m, c.delta)
		if y != c.wy || m != c.wm {
			t.Errorf("Shift(%d, %d, %d) = %d, %d; want %d, %d", c.y, c.m, c.delta, y, m, c.wy, c.wm)
		}
	}
}

func TestHeadersAndNames(t *testing.T) {
	if got := WeekdayHeaders(time.Sunday); !reflect.DeepEqual(got, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}) {
		t.Fatalf("sunday headers = %v", got)
	}
	if got := WeekdayHeaders(time.Monday); got[0] != "Mon" || got[6] != "Sun" {
		t.Fatalf("monday headers = %v", got)
	}
	if MonthName(1) != "February" || MonthName(12) != "" {
		t.Fatal("MonthName mismatch")
	}
	if ws, err := ParseWeekStart("Monday"); err != nil || ws != time.Monday {
		t.Fatalf("ParseWeekStart(Monday) = %v, %v", ws, err)
	}
	if _, err := ParseWeekStart("friday"); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("ParseWeekStart(friday) err = %v", err)
	}
}
