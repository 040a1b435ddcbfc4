package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"monthcal/internal/ics"
	appLog "monthcal/internal/log"
	"monthcal/internal/model"
)

// Record is one entry of the static seed file.
//
// Duration is accepted for compatibility with existing files but never
// trusted; the event's duration is always derived from start and end.
type Record struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"`
	StartTime   string `json:"startTime" yaml:"startTime"`
	EndTime     string `json:"endTime" yaml:"endTime"`
	Duration    *int   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category" yaml:"category"`
}

// LoadFile reads seed events from path. The format is picked by
// extension: .json, .yaml/.yml or .ics.
func LoadFile(path string) ([]model.Event, error) {
	if path == "" {
		return nil, errors.New("events file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		events, err = DecodeJSON(data)
	case ".yaml", ".yml":
		events, err = DecodeYAML(data)
	case ".ics":
		events, err = ics.ParseICS(data)
	default:
		return nil, fmt.Errorf("%w: unsupported events file extension %q", model.ErrInvalidArgument, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	appLog.Info("seed events loaded", "path", path, "count", len(events))
	return events, nil
}

// DecodeJSON parses a JSON array of records.
func DecodeJSON(data []byte) ([]model.Event, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}
	return FromRecords(recs)
}

// DecodeYAML parses a YAML sequence of records.
func DecodeYAML(data []byte) ([]model.Event, error) {
	var recs []Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}
	return FromRecords(recs)
}

// FromRecords validates records with the same rules as user submissions
// and keeps their IDs.
func FromRecords(recs []Record) ([]model.Event, error) {
	out := make([]model.Event, 0, len(recs))
	for i, rec := range recs {
		ev, err := rec.Event()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Event converts the record into a validated model.Event.
func (r Record) Event() (model.Event, error) {
	if strings.TrimSpace(r.ID) == "" {
		return model.Event{}, fmt.Errorf("%w: id is required", model.ErrInvalidArgument)
	}
	ev, ferrs := Validate(Draft{
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
	})
	if len(ferrs) > 0 {
		return model.Event{}, fmt.Errorf("id %q: %w", r.ID, &ValidationError{Fields: ferrs})
	}
	ev.ID = r.ID

	if r.Duration != nil && *r.Duration != ev.DurationMinutes() {
		appLog.Debug("seed record duration disagrees with start/end; using start/end",
			"id", r.ID,
			"stored", *r.Duration,
			"derived", ev.DurationMinutes(),
		)
	}
	return ev, nil
}

// NewRecord is the inverse of Record.Event; duration is filled in from
// the event.
func NewRecord(ev model.Event) Record {
	d := ev.DurationMinutes()
	return Record{
		ID:          ev.ID,
		Title:       ev.Title,
		Date:        ev.Date.String(),
		StartTime:   ev.Start.String(),
		EndTime:     ev.End.String(),
		Duration:    &d,
		Description: ev.Description,
		Category:    string(ev.Category),
	}
}
