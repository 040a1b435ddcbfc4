package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"monthcal/internal/model"
)

const floatingLayout = "20060102T150405"

// Export serializes events into a single VCALENDAR. DTSTART/DTEND are
// written as floating local times; stamp becomes every DTSTAMP.
func Export(events []model.Event, prodID string, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp)
		ve.SetProperty(ical.ComponentPropertyDtStart, wallClock(ev.Date, ev.Start))
		ve.SetProperty(ical.ComponentPropertyDtEnd, wallClock(ev.Date, ev.End))
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(ev.Category)))
	}

	return cal.Serialize()
}

func wallClock(d model.Date, t model.TimeOfDay) string {
	return time.Date(d.Year, d.Month, d.Day, t.Hour(), t.Minute(), 0, 0, time.UTC).Format(floatingLayout)
}
