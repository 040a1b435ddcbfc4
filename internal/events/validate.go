package events

import (
	"fmt"
	"sort"
	"strings"

	"monthcal/internal/model"
)

// Form field names used in FieldError.Field.
const (
	FieldTitle     = "title"
	FieldDate      = "date"
	FieldStartTime = "startTime"
	FieldEndTime   = "endTime"
	FieldCategory  = "category"
)

// Draft is an event as submitted by a user, before validation.
type Draft struct {
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// ValidationError carries every field error of a rejected draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == model.ErrValidationFailed
}

// ByField flattens the errors into field -> message. The first message
// per field wins.
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, fe := range e.Fields {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Msg
		}
	}
	return out
}

// Validate checks a draft and returns the event it describes (without an
// ID). Title and description are trimmed. The returned event is only
// meaningful when the error slice is empty.
func Validate(d Draft) (model.Event, []FieldError) {
	var errs []FieldError
	var ev model.Event

	ev.Title = strings.TrimSpace(d.Title)
	if ev.Title == "" {
		errs = append(errs, FieldError{FieldTitle, "event title is required"})
	}

	date, err := model.ParseDate(d.Date)
	if err != nil {
		errs = append(errs, FieldError{FieldDate, "must be a date in YYYY-MM-DD format"})
	}
	ev.Date = date

	start, serr := model.ParseTimeOfDay(d.StartTime)
	if serr != nil {
		errs = append(errs, FieldError{FieldStartTime, "must be a time in HH:mm format"})
	}
	end, eerr := model.ParseTimeOfDay(d.EndTime)
	if eerr != nil {
		errs = append(errs, FieldError{FieldEndTime, "must be a time in HH:mm format"})
	}
	if serr == nil && eerr == nil && end <= start {
		errs = append(errs, FieldError{FieldEndTime, "end time must be after start time"})
	}
	ev.Start, ev.End = start, end

	cat, err := model.ParseCategory(d.Category)
	if err != nil {
		errs = append(errs, FieldError{FieldCategory, "must be one of " + categoryList()})
	}
	ev.Category = cat

	ev.Description = strings.TrimSpace(d.Description)

	return ev, errs
}

func categoryList() string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
