package web

import "monthcal/internal/events"

// eventDTO is the JSON view of one event: the seed-file record shape plus
// presentation helpers.
type eventDTO struct {
	events.Record
	DurationLabel string `json:"durationLabel"`
	StartLabel    string `json:"startLabel"`
	EndLabel      string `json:"endLabel"`
	Conflict      bool   `json:"conflict"`
}

type cellDTO struct {
	Date           string     `json:"date"`
	DayNumber      int        `json:"dayNumber"`
	IsCurrentMonth bool       `json:"isCurrentMonth"`
	IsToday        bool       `json:"isToday"`
	Events         []eventDTO `json:"events"`
}

// monthResponse is the JSON shape for /api/month and /api/view.
type monthResponse struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	MonthName string    `json:"monthName"`
	WeekStart string    `json:"weekStart"`
	Weekdays  []string  `json:"weekdays"`
	Days      []cellDTO `json:"days"`
	Conflicts []string  `json:"conflicts"`
}

type eventsResponse struct {
	Events []eventDTO `json:"events"`
}

type conflictsResponse struct {
	IDs []string `json:"ids"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type errorResponse struct {
	Error string `json:"error"`
}
