package layout

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cwarden/weekcal/internal/calendar"
)

func ev(id, start, end string) calendar.Event {
	return calendar.Event{ID: id, Title: id, Date: "2025-03-10", StartTime: start, EndTime: end}
}

func TestComputeExample(t *testing.T) {
	events := []calendar.Event{
		ev("A", "09:00", "10:00"),
		ev("B", "09:30", "10:30"),
		ev("C", "10:00", "11:00"),
	}
	placed := byID(Compute(events, DefaultScale()))

	if placed["A"].Column != placed["C"].Column {
		t.Errorf("A and C should share a column: A=%d C=%d", placed["A"].Column, placed["C"].Column)
	}
	if placed["A"].Column == placed["B"].Column {
		t.Errorf("A and B overlap but share column %d", placed["A"].Column)
	}
	for id, p := range placed {
		if p.Columns != 2 {
			t.Errorf("%s: Columns = %d, want 2", id, p.Columns)
		}
	}
	if placed["A"].Column != 0 || placed["B"].Column != 1 {
		t.Errorf("columns A=%d B=%d, want 0 and 1", placed["A"].Column, placed["B"].Column)
	}
	if placed["B"].Left != 50 || placed["B"].Width != 49 {
		t.Errorf("B left/width = %v/%v, want 50/49", placed["B"].Left, placed["B"].Width)
	}
}

func TestComputeGeometry(t *testing.T) {
	tests := []struct {
		name       string
		event      calendar.Event
		wantTop    float64
		wantHeight float64
	}{
		{"one hour at nine", ev("a", "09:00", "10:00"), 540, 60},
		{"short event gets min height", ev("b", "12:00", "12:05"), 720, 20},
		{"inverted range gets min height", ev("c", "15:00", "14:00"), 900, 20},
		{"midnight", ev("d", "00:00", "00:30"), 0, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compute([]calendar.Event{tt.event}, DefaultScale())[0]
			if p.Top != tt.wantTop || p.Height != tt.wantHeight {
				t.Errorf("top/height = %v/%v, want %v/%v", p.Top, p.Height, tt.wantTop, tt.wantHeight)
			}
			if p.Columns != 1 || p.Left != 0 || p.Width != 99 {
				t.Errorf("single event columns/left/width = %d/%v/%v", p.Columns, p.Left, p.Width)
			}
		})
	}

	rows := Scale{PixelsPerHour: 2, MinHeight: 1}
	p := Compute([]calendar.Event{ev("r", "09:30", "10:30")}, rows)[0]
	if p.Top != 19 || p.Height != 2 {
		t.Errorf("row scale top/height = %v/%v, want 19/2", p.Top, p.Height)
	}
}

func TestComputeSortOrder(t *testing.T) {
	// Same start: the longer event is placed first and takes column 0.
	events := []calendar.Event{
		ev("short", "09:00", "09:30"),
		ev("long", "09:00", "12:00"),
		ev("later", "09:45", "10:00"),
	}
	placed := Compute(events, DefaultScale())
	order := []string{placed[0].Event.ID, placed[1].Event.ID, placed[2].Event.ID}
	if fmt.Sprint(order) != "[long short later]" {
		t.Errorf("order = %v", order)
	}
	ids := byID(placed)
	if ids["long"].Column != 0 || ids["short"].Column != 1 || ids["later"].Column != 1 {
		t.Errorf("columns long=%d short=%d later=%d", ids["long"].Column, ids["short"].Column, ids["later"].Column)
	}
}

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil, DefaultScale()); got != nil {
		t.Errorf("Compute(nil) = %v", got)
	}
}

func TestComputeNoOverlapWithinColumn(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := rng.Intn(12) + 1
		events := make([]calendar.Event, n)
		for i := range events {
			start := rng.Intn(96) * 15
			dur := (rng.Intn(12) + 1) * 15
			events[i] = calendar.Event{
				ID:        fmt.Sprintf("e%d", i),
				Date:      "2025-03-10",
				StartTime: calendar.FormatClock(start),
				EndTime:   calendar.FormatClock(start + dur),
			}
		}

		placed := Compute(events, DefaultScale())
		if len(placed) != n {
			t.Fatalf("round %d: %d placed, want %d", round, len(placed), n)
		}
		for i := range placed {
			for j := i + 1; j < len(placed); j++ {
				a, b := placed[i], placed[j]
				if a.Column != b.Column {
					continue
				}
				if a.Event.StartMinutes() < b.Event.EndMinutes() && b.Event.StartMinutes() < a.Event.EndMinutes() {
					t.Fatalf("round %d: %s and %s overlap in column %d", round, a.Event.ID, b.Event.ID, a.Column)
				}
			}
		}

		// Same input, same columns.
		again := Compute(events, DefaultScale())
		for i := range placed {
			if placed[i].Event.ID != again[i].Event.ID || placed[i].Column != again[i].Column {
				t.Fatalf("round %d: layout not deterministic at %d", round, i)
			}
		}
	}
}

func TestForDay(t *testing.T) {
	events := []calendar.Event{
		{ID: "a", Date: "2025-03-10"},
		{ID: "b", Date: "2025-03-11"},
		{ID: "c", Date: "2025-03-10"},
	}
	got := ForDay(events, "2025-03-10")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("ForDay = %v", got)
	}
}

func byID(placed []Positioned) map[string]Positioned {
	m := make(map[string]Positioned, len(placed))
	for _, p := range placed {
		m[p.Event.ID] = p
	}
	return m
}
