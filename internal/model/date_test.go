package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != (Date{2024, time.February, 29}) {
		t.Fatalf("unexpected date %+v", d)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("String() = %q", d.String())
	}

	for _, bad := range []string{"", "2024-2-1", "2023-02-29", "2024-13-01", "tomorrow"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{2024, time.December, 31}
	if got := d.AddDays(1); got != (Date{2025, time.January, 1}) {
		t.Fatalf("AddDays(1) = %v", got)
	}
	if got := d.AddDays(-365); got != (Date{2024, time.January, 1}) {
		t.Fatalf("AddDays(-365) = %v", got)
	}
	if d.Weekday() != time.Tuesday {
		t.Fatalf("2024-12-31 weekday = %v", d.Weekday())
	}
	if !d.AddDays(-1).Before(d) || d.Before(d) {
		t.Fatal("Before ordering is wrong")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want TimeOfDay
	}{
		{"00:00", 0},
		{"09:05", 9*60 + 5},
		{"9:30", 9*60 + 30},
		{"23:59", 23*60 + 59},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "24:00", "12:60", "1230", "12:5", "ab:cd", "123:00", "+9:00", "10:+5", "-0:00", " 9:-1"} {
		if _, err := ParseTimeOfDay(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseTimeOfDay(%q) err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestTimeOfDayFormatting(t *testing.T) {
	cases := map[TimeOfDay]string{
		0:          "12:00 AM",
		9*60 + 5:   "9:05 AM",
		12 * 60:    "12:00 PM",
		23*60 + 59: "11:59 PM",
		13*60 + 30: "1:30 PM",
	}
	for in, want := range cases {
		if got := in.Format12h(); got != want {
			t.Errorf("Format12h(%s) = %q, want %q", in, got, want)
		}
	}
	if s := TimeOfDay(9*60 + 5).String(); s != "09:05" {
		t.Fatalf("String() = %q", s)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		45:  "45m",
		60:  "1h",
		90:  "1h 30m",
		120: "2h",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTextMarshalingInJSON(t *testing.T) {
	type rec struct {
		Date  Date      `json:"date"`
		Start TimeOfDay `json:"startTime"`
	}
	var r rec
	if err := json.Unmarshal([]byte(`{"date":"2024-05-01","startTime":"09:30"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Date != (Date{2024, time.May, 1}) || r.Start != 9*60+30 {
		t.Fatalf("unexpected record %+v", r)
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"date":"2024-05-01","startTime":"09:30"}` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory(" Meeting "); err != nil || c != CategoryMeeting {
		t.Fatalf("ParseCategory(Meeting) = %q, %v", c, err)
	}
	if c, err := ParseCategory(""); err != nil || c != CategoryOther {
		t.Fatalf("ParseCategory(empty) = %q, %v", c, err)
	}
	if _, err := ParseCategory("holiday"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ParseCategory(holiday) err = %v", err)
	}
}

func TestEventDurationIsDerived(t *testing.T) {
	e := Event{Start: 9 * 60, End: 10*60 + 30}
	if e.DurationMinutes() != 90 {
		t.Fatalf("DurationMinutes = %d", e.DurationMinutes())
	}
	if e.Duration() != 90*time.Minute {
		t.Fatalf("Duration = %v", e.Duration())
	}
}
