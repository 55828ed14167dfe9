package parser

import (
	"github.com/cwarden/weekcal/internal/calendar"
)

// DefaultStart is used when quick-add text names no time.
const DefaultStart = 9 * 60

// QuickAdd turns text like "next fri 2-3pm review" into validated event
// fields. Without an end time the event lasts defaultDuration minutes.
func (p *TimeParser) QuickAdd(input string, defaultDuration int) (calendar.Fields, error) {
	parsed, err := p.Parse(input)
	if err != nil {
		return calendar.Fields{}, err
	}

	start := DefaultStart
	if parsed.HasTime {
		start = parsed.Start
	}
	end := start + defaultDuration
	if parsed.HasEnd {
		end = parsed.End
	}
	if end > calendar.MinutesPerDay {
		end = calendar.MinutesPerDay
	}

	f := calendar.Fields{
		Title:     parsed.Text,
		Date:      calendar.FormatDate(parsed.Date),
		StartTime: calendar.FormatClock(start),
		EndTime:   calendar.FormatClock(end),
	}
	if err := calendar.Validate(f); err != nil {
		return calendar.Fields{}, err
	}
	return f, nil
}

// NormalizeDate accepts anything ParseDateExpr does and returns YYYY-MM-DD.
func (p *TimeParser) NormalizeDate(s string) (string, error) {
	d, err := p.ParseDateExpr(s)
	if err != nil {
		return "", err
	}
	return calendar.FormatDate(d), nil
}

// NormalizeTime accepts anything ParseTimeExpr does and returns HH:mm.
func (p *TimeParser) NormalizeTime(s string) (string, error) {
	m, err := p.ParseTimeExpr(s)
	if err != nil {
		return "", err
	}
	return calendar.FormatClock(m), nil
}
