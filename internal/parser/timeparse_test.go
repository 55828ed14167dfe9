package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/cwarden/weekcal/internal/calendar"
)

func newParser() *TimeParser {
	p := NewTimeParser()
	// Friday
	p.SetNow(time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local))
	return p
}

func TestParseRelativeDates(t *testing.T) {
	parser := newParser()

	tests := []struct {
		input        string
		expectedDate string
		expectedText string
		hasTime      bool
	}{
		{"today meeting with team", "2024-03-15", "meeting with team", false},
		{"tomorrow 2pm dentist appointment", "2024-03-16", "dentist appointment", true},
		{"tmrw lunch", "2024-03-16", "lunch", false},
		{"yesterday recap", "2024-03-14", "recap", false},
		{"next monday submit report", "2024-03-18", "submit report", false},
		{"monday planning", "2024-03-18", "planning", false},
		{"next friday retro", "2024-03-22", "retro", false},
		{"in 3 days project deadline", "2024-03-18", "project deadline", false},
		{"2 weeks from now vacation starts", "2024-03-29", "vacation starts", false},
		{"todays news", "2024-03-15", "todays news", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := calendar.FormatDate(result.Date); got != tt.expectedDate {
				t.Errorf("Date mismatch: got %v, want %v", got, tt.expectedDate)
			}
			if result.Text != tt.expectedText {
				t.Errorf("Text mismatch: got %q, want %q", result.Text, tt.expectedText)
			}
			if result.HasTime != tt.hasTime {
				t.Errorf("HasTime mismatch: got %v, want %v", result.HasTime, tt.hasTime)
			}
		})
	}
}

func TestParseAbsoluteDates(t *testing.T) {
	parser := newParser()

	tests := []struct {
		input        string
		expectedDate string
		expectedText string
	}{
		{"2024-04-02 release", "2024-04-02", "release"},
		{"3/25/2024 birthday party", "2024-03-25", "birthday party"},
		{"12-31-2024 new year's eve", "2024-12-31", "new year's eve"},
		{"4/1 april fools", "2024-04-01", "april fools"},
		{"May 15, 2024 conference", "2024-05-15", "conference"},
		{"december 25 christmas", "2024-12-25", "christmas"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := calendar.FormatDate(result.Date); got != tt.expectedDate {
				t.Errorf("Date mismatch: got %v, want %v", got, tt.expectedDate)
			}
			if result.Text != tt.expectedText {
				t.Errorf("Text mismatch: got %q, want %q", result.Text, tt.expectedText)
			}
		})
	}
}

func TestParseTimes(t *testing.T) {
	parser := newParser()

	tests := []struct {
		input        string
		expectedMin  int
		expectedText string
	}{
		{"2pm meeting", 14 * 60, "meeting"},
		{"14:30 conference call", 14*60 + 30, "conference call"},
		{"at 9am standup", 9 * 60, "standup"},
		{"12am backup", 0, "backup"},
		{"noon lunch", 12 * 60, "lunch"},
		{"midnight deadline", 0, "deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !result.HasTime {
				t.Fatal("Expected time to be parsed")
			}
			if result.Start != tt.expectedMin {
				t.Errorf("Start mismatch: got %d, want %d", result.Start, tt.expectedMin)
			}
			if result.Text != tt.expectedText {
				t.Errorf("Text mismatch: got %q, want %q", result.Text, tt.expectedText)
			}
		})
	}
}

func TestBareNumberIsNotATime(t *testing.T) {
	result, err := newParser().Parse("3 people lunch")
	if err != nil {
		t.Fatal(err)
	}
	if result.HasTime || result.Text != "3 people lunch" {
		t.Errorf("got HasTime=%v Text=%q", result.HasTime, result.Text)
	}
}

func TestParseTimeRanges(t *testing.T) {
	parser := newParser()

	tests := []struct {
		input        string
		start, end   int
		expectedText string
	}{
		{"2pm-4pm workshop", 14 * 60, 16 * 60, "workshop"},
		{"9:00-10:30 meeting", 9 * 60, 10*60 + 30, "meeting"},
		{"1-2pm lunch break", 13 * 60, 14 * 60, "lunch break"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !result.HasTime || !result.HasEnd {
				t.Fatal("Expected a time range")
			}
			if result.Start != tt.start || result.End != tt.end {
				t.Errorf("range = %d-%d, want %d-%d", result.Start, result.End, tt.start, tt.end)
			}
			if result.Text != tt.expectedText {
				t.Errorf("Text mismatch: got %q, want %q", result.Text, tt.expectedText)
			}
		})
	}
}

func TestQuickAdd(t *testing.T) {
	parser := newParser()

	tests := []struct {
		input string
		want  calendar.Fields
		err   error
	}{
		{
			input: "tomorrow at 3pm doctor appointment",
			want:  calendar.Fields{Title: "doctor appointment", Date: "2024-03-16", StartTime: "15:00", EndTime: "16:00"},
		},
		{
			input: "next friday 2:30pm-4pm team meeting",
			want:  calendar.Fields{Title: "team meeting", Date: "2024-03-22", StartTime: "14:30", EndTime: "16:00"},
		},
		{
			input: "write report",
			want:  calendar.Fields{Title: "write report", Date: "2024-03-15", StartTime: "09:00", EndTime: "10:00"},
		},
		{
			input: "11:30pm late call",
			want:  calendar.Fields{Title: "late call", Date: "2024-03-15", StartTime: "23:30", EndTime: "24:00"},
		},
		{input: "tomorrow 3pm", err: calendar.ErrMissingField},
		{input: "4pm-3pm backwards", err: calendar.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parser.QuickAdd(tt.input, 60)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("QuickAdd failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	parser := newParser()

	dates := map[string]string{
		"2024-03-20": "2024-03-20",
		"tomorrow":   "2024-03-16",
		"next mon":   "2024-03-18",
		"mar 1":      "2024-03-01",
	}
	for in, want := range dates {
		got, err := parser.NormalizeDate(in)
		if err != nil || got != want {
			t.Errorf("NormalizeDate(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "someday", "2024-02-30", "tomorrow lunch"} {
		if _, err := parser.NormalizeDate(bad); err == nil {
			t.Errorf("NormalizeDate(%q) succeeded", bad)
		}
	}

	times := map[string]string{
		"9:05":    "09:05",
		"14:30":   "14:30",
		"2pm":     "14:00",
		"2:15 pm": "14:15",
		"noon":    "12:00",
		"24:00":   "24:00",
	}
	for in, want := range times {
		got, err := parser.NormalizeTime(in)
		if err != nil || got != want {
			t.Errorf("NormalizeTime(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "9", "25:00", "2pm-3pm", "lunchtime"} {
		if _, err := parser.NormalizeTime(bad); err == nil {
			t.Errorf("NormalizeTime(%q) succeeded", bad)
		}
	}
}
