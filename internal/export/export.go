package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"

	"github.com/cwarden/weekcal/internal/calendar"
	appLog "github.com/cwarden/weekcal/internal/log"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatICS  Format = "ics"
)

const productID = "-//weekcal//weekcal//EN"

// floatingLayout is an iCalendar DATE-TIME without a zone, i.e. local time
// wherever the calendar is opened.
const floatingLayout = "20060102T150405"

// now stamps DTSTAMP; tests replace it.
var now = time.Now

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "ics", "ical", "icalendar":
		return FormatICS, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml or ics)", s)
}

// Write encodes events to w in the given format.
func Write(w io.Writer, format Format, events []calendar.Event) error {
	if events == nil {
		events = []calendar.Event{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatICS:
		return Calendar(events).SerializeTo(w)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// Calendar builds a VCALENDAR with one VEVENT per event. Events whose date
// or times do not parse are skipped.
func Calendar(events []calendar.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := now().UTC()
	for _, e := range events {
		start, end, err := span(e)
		if err != nil {
			appLog.Error("skipping event in ics export", err, "id", e.ID)
			continue
		}
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Title)
		ve.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		ve.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
	}
	return cal
}

func span(e calendar.Event) (time.Time, time.Time, error) {
	day, err := calendar.ParseDate(e.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	startMin, err := calendar.ParseClock(e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := calendar.ParseClock(e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// DTEND may not precede DTSTART.
	if endMin < startMin {
		endMin = startMin
	}
	return atMinute(day, startMin), atMinute(day, endMin), nil
}

// atMinute works in wall-clock time so DST changes do not shift the result.
func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}
