// Package ics converts between iCalendar documents and calendar events.
//
// Times are treated as floating wall-clock values: the digits of DTSTART
// and DTEND are taken as-is, with no timezone conversion.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "monthcal/internal/log"
	"monthcal/internal/model"
)

// ErrSkipped marks a VEVENT this calendar cannot represent (all-day,
// recurring or spanning midnight).
var ErrSkipped = errors.New("event not representable")

// ParseICS parses an ICS payload into events, in document order.
//
// Unrepresentable VEVENTs are logged and skipped; the rest of the
// document still loads.
func ParseICS(body []byte) ([]model.Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty ICS body", model.ErrInvalidArgument)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}

	events := make([]model.Event, 0)
	skipped := 0
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(comp)
		if perr != nil {
			skipped++
			appLog.Warn("ics vevent skipped", "reason", perr.Error())
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events), "skipped", skipped)
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (model.Event, error) {
	var out model.Event

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || strings.TrimSpace(uidProp.Value) == "" {
		return out, errors.New("missing UID")
	}
	out.ID = strings.TrimSpace(uidProp.Value)

	if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
		return out, fmt.Errorf("%w: %s is recurring", ErrSkipped, out.ID)
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = strings.TrimSpace(p.Value)
	}
	if out.Title == "" {
		return out, fmt.Errorf("%s: missing SUMMARY", out.ID)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = strings.TrimSpace(p.Value)
	}
	out.Category = model.CategoryOther
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		out.Category = categoryFromICS(p.Value)
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return out, fmt.Errorf("%s: missing DTSTART", out.ID)
	}
	endProp := ve.GetProperty(ical.ComponentPropertyDtEnd)
	if endProp == nil {
		return out, fmt.Errorf("%s: missing DTEND", out.ID)
	}
	if isDateOnly(startProp) {
		return out, fmt.Errorf("%w: %s is an all-day event", ErrSkipped, out.ID)
	}

	start, err := parseWallClock(startProp.Value)
	if err != nil {
		return out, fmt.Errorf("%s: DTSTART: %w", out.ID, err)
	}
	end, err := parseWallClock(endProp.Value)
	if err != nil {
		return out, fmt.Errorf("%s: DTEND: %w", out.ID, err)
	}

	out.Date = model.DateOf(start)
	if model.DateOf(end) != out.Date {
		return out, fmt.Errorf("%w: %s spans more than one day", ErrSkipped, out.ID)
	}
	out.Start = model.TimeOfDay(start.Hour()*60 + start.Minute())
	out.End = model.TimeOfDay(end.Hour()*60 + end.Minute())
	if out.End <= out.Start {
		return out, fmt.Errorf("%s: DTEND is not after DTSTART", out.ID)
	}

	return out, nil
}

func isDateOnly(p *ical.IANAProperty) bool {
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// parseWallClock reads a DATE-TIME value and keeps its digits. A trailing
// Z is accepted and ignored.
func parseWallClock(v string) (time.Time, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "Z")
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	return time.ParseInLocation("20060102T150405", v, time.UTC)
}

// categoryFromICS picks the first CATEGORIES entry that names a known
// category.
func categoryFromICS(v string) model.Category {
	for _, part := range strings.Split(v, ",") {
		if c, err := model.ParseCategory(part); err == nil && strings.TrimSpace(part) != "" {
			return c
		}
	}
	return model.CategoryOther
}
