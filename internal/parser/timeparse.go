package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parsed is the result of reading a free-form event description such as
// "tomorrow 2pm-3pm dentist".
type Parsed struct {
	Date    time.Time
	HasDate bool
	HasTime bool
	// Start and End are minutes since midnight. End is only meaningful when
	// HasEnd is set.
	Start  int
	End    int
	HasEnd bool
	Text   string // what is left once the date and time are taken off
}

type TimeParser struct {
	now      time.Time
	location *time.Location
}

func NewTimeParser() *TimeParser {
	return &TimeParser{
		now:      time.Now(),
		location: time.Local,
	}
}

func (p *TimeParser) SetNow(now time.Time) {
	p.now = now
}

var (
	weekdayRe   = regexp.MustCompile(`^(?:(next|this)\s+)?(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)\b`)
	inRe        = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)\b`)
	fromNowRe   = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks|month|months)\s+from\s+(now|today)\b`)
	isoDateRe   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	usDateRe    = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	shortDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})\b`)
	monthNameRe = regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)\s+(\d{1,2})\b(?:,?\s+(\d{4})\b)?`)
	rangeRe     = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*-\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	timeRe      = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

// namedTimes is ordered so that longer names are tried first.
var namedTimes = []struct {
	name   string
	minute int
}{
	{"midnight", 0},
	{"afternoon", 14 * 60},
	{"morning", 9 * 60},
	{"evening", 18 * 60},
	{"night", 21 * 60},
	{"noon", 12 * 60},
}

// Parse reads an optional date, an optional time or time range, and keeps
// the rest as text.
func (p *TimeParser) Parse(input string) (*Parsed, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	result := &Parsed{}
	remaining := input

	if date, text, ok := p.parseDate(remaining); ok {
		result.Date = date
		result.HasDate = true
		remaining = text
	} else {
		result.Date = p.today()
	}

	if start, end, hasEnd, text, ok := p.parseTime(remaining); ok {
		result.HasTime = true
		result.Start = start
		result.End = end
		result.HasEnd = hasEnd
		remaining = text
	}

	result.Text = strings.TrimSpace(remaining)
	return result, nil
}

// ParseDateExpr reads a whole string as a date, relative or absolute.
func (p *TimeParser) ParseDateExpr(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	date, rest, ok := p.parseDate(s)
	if !ok || rest != "" {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return date, nil
}

// ParseTimeExpr reads a whole string as a time of day, returning minutes
// since midnight. "14:30", "2:30pm", "2pm" and "noon" are all accepted.
func (p *TimeParser) ParseTimeExpr(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * 60, nil
	}
	start, _, hasEnd, rest, ok := p.parseTime(s)
	if !ok || hasEnd || rest != "" {
		return 0, fmt.Errorf("unrecognised time %q", s)
	}
	return start, nil
}

func (p *TimeParser) parseDate(input string) (time.Time, string, bool) {
	if date, text, ok := p.parseRelativeDate(input); ok {
		return date, text, true
	}
	return p.parseAbsoluteDate(input)
}

func (p *TimeParser) parseRelativeDate(input string) (time.Time, string, bool) {
	lower := strings.ToLower(input)

	for _, w := range []struct {
		word   string
		offset int
	}{
		{"today", 0},
		{"tomorrow", 1},
		{"tmrw", 1},
		{"yesterday", -1},
	} {
		if hasWordPrefix(lower, w.word) {
			return p.today().AddDate(0, 0, w.offset), strings.TrimSpace(input[len(w.word):]), true
		}
	}

	if matches := weekdayRe.FindStringSubmatch(lower); matches != nil {
		weekday := parseWeekday(matches[2])
		date := p.findNextWeekday(weekday, matches[1] == "next")
		return date, strings.TrimSpace(input[len(matches[0]):]), true
	}

	if matches := inRe.FindStringSubmatch(lower); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		return p.offsetDate(n, matches[2]), strings.TrimSpace(input[len(matches[0]):]), true
	}

	if matches := fromNowRe.FindStringSubmatch(lower); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		return p.offsetDate(n, matches[2]), strings.TrimSpace(input[len(matches[0]):]), true
	}

	return time.Time{}, input, false
}

func (p *TimeParser) offsetDate(n int, unit string) time.Time {
	date := p.today()
	switch {
	case strings.HasPrefix(unit, "day"):
		return date.AddDate(0, 0, n)
	case strings.HasPrefix(unit, "week"):
		return date.AddDate(0, 0, n*7)
	default:
		return date.AddDate(0, n, 0)
	}
}

func (p *TimeParser) parseAbsoluteDate(input string) (time.Time, string, bool) {
	// YYYY-MM-DD
	if matches := isoDateRe.FindStringSubmatch(input); matches != nil {
		year, _ := strconv.Atoi(matches[1])
		month, _ := strconv.Atoi(matches[2])
		day, _ := strconv.Atoi(matches[3])
		if date, ok := p.validDate(year, month, day); ok {
			return date, strings.TrimSpace(input[len(matches[0]):]), true
		}
		return time.Time{}, input, false
	}

	// MM/DD/YYYY or MM-DD-YYYY
	if matches := usDateRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])
		year, _ := strconv.Atoi(matches[3])
		if date, ok := p.validDate(year, month, day); ok {
			return date, strings.TrimSpace(input[len(matches[0]):]), true
		}
		return time.Time{}, input, false
	}

	// MM/DD in the current year
	if matches := shortDateRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])
		if date, ok := p.validDate(p.now.Year(), month, day); ok {
			return date, strings.TrimSpace(input[len(matches[0]):]), true
		}
		return time.Time{}, input, false
	}

	// Month DD[, YYYY]
	if matches := monthNameRe.FindStringSubmatch(strings.ToLower(input)); matches != nil {
		day, _ := strconv.Atoi(matches[2])
		year := p.now.Year()
		if matches[3] != "" {
			year, _ = strconv.Atoi(matches[3])
		}
		if date, ok := p.validDate(year, int(parseMonth(matches[1])), day); ok {
			return date, strings.TrimSpace(input[len(matches[0]):]), true
		}
	}

	return time.Time{}, input, false
}

// validDate rejects dates that time.Date would silently normalise, such as
// February 30.
func (p *TimeParser) validDate(year, month, day int) (time.Time, bool) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func (p *TimeParser) parseTime(input string) (start, end int, hasEnd bool, rest string, ok bool) {
	lower := strings.ToLower(input)

	if strings.HasPrefix(lower, "at ") {
		lower = lower[3:]
		input = input[3:]
	}

	// Ranges: "2pm-4pm", "14:00-16:00", "2-3pm"
	if matches := rangeRe.FindStringSubmatch(lower); matches != nil {
		endMeridiem := matches[6]
		startMeridiem := matches[3]
		if startMeridiem == "" {
			startMeridiem = endMeridiem
		}
		s, okStart := clockMinutes(matches[1], matches[2], startMeridiem)
		e, okEnd := clockMinutes(matches[4], matches[5], endMeridiem)
		if okStart && okEnd {
			return s, e, true, strings.TrimSpace(input[len(matches[0]):]), true
		}
		return 0, 0, false, input, false
	}

	if matches := timeRe.FindStringSubmatch(lower); matches != nil {
		// A bare number is only a time with a colon or am/pm.
		if matches[2] == "" && matches[3] == "" {
			return 0, 0, false, input, false
		}
		m, valid := clockMinutes(matches[1], matches[2], matches[3])
		if !valid {
			return 0, 0, false, input, false
		}
		return m, 0, false, strings.TrimSpace(input[len(matches[0]):]), true
	}

	for _, named := range namedTimes {
		if hasWordPrefix(lower, named.name) {
			return named.minute, 0, false, strings.TrimSpace(input[len(named.name):]), true
		}
	}

	return 0, 0, false, input, false
}

func clockMinutes(hourStr, minStr, meridiem string) (int, bool) {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if meridiem != "" && (hour > 23 || hourStr == "0") {
		return 0, false
	}
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func hasWordPrefix(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	return len(s) == len(word) || s[len(word)] == ' '
}

func parseWeekday(s string) time.Weekday {
	switch s[:3] {
	case "mon":
		return time.Monday
	case "tue":
		return time.Tuesday
	case "wed":
		return time.Wednesday
	case "thu":
		return time.Thursday
	case "fri":
		return time.Friday
	case "sat":
		return time.Saturday
	default:
		return time.Sunday
	}
}

func parseMonth(s string) time.Month {
	switch s[:3] {
	case "jan":
		return time.January
	case "feb":
		return time.February
	case "mar":
		return time.March
	case "apr":
		return time.April
	case "may":
		return time.May
	case "jun":
		return time.June
	case "jul":
		return time.July
	case "aug":
		return time.August
	case "sep":
		return time.September
	case "oct":
		return time.October
	case "nov":
		return time.November
	default:
		return time.December
	}
}

// findNextWeekday returns the next target weekday after today. "next"
// skips a further week.
func (p *TimeParser) findNextWeekday(target time.Weekday, skipThisWeek bool) time.Time {
	date := p.today()
	daysUntilTarget := int(target - date.Weekday())

	if daysUntilTarget <= 0 || skipThisWeek {
		daysUntilTarget += 7
	}

	return date.AddDate(0, 0, daysUntilTarget)
}

func (p *TimeParser) today() time.Time {
	y, m, d := p.now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location)
}
