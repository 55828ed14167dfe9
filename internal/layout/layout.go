package layout

import (
	"math"
	"sort"

	"github.com/cwarden/weekcal/internal/calendar"
)

// Scale converts minutes to the vertical units of the surface being drawn
// on: pixels for a browser-like canvas, rows for a terminal.
type Scale struct {
	PixelsPerHour float64
	// MinHeight keeps very short events visible.
	MinHeight float64
	// Gutter is subtracted from every column width, in percent.
	Gutter float64
}

func DefaultScale() Scale {
	return Scale{PixelsPerHour: 60, MinHeight: 20, Gutter: 1}
}

// Positioned is an event placed in its day column. Top and Height are in
// Scale units, Left and Width in percent of the day column.
type Positioned struct {
	Event   calendar.Event
	Top     float64
	Height  float64
	Column  int
	Columns int
	Left    float64
	Width   float64
}

type span struct {
	event      calendar.Event
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// Compute lays out the events of a single day. Events are sorted by start
// time, longer first on ties, and each goes into the leftmost column that
// has nothing overlapping it. The same input always yields the same columns.
//
// The result has one entry per event, in that sorted order.
func Compute(events []calendar.Event, scale Scale) []Positioned {
	if len(events) == 0 {
		return nil
	}

	spans := make([]span, len(events))
	for i, e := range events {
		spans[i] = span{event: e, start: e.StartMinutes(), end: e.EndMinutes()}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end-spans[i].start > spans[j].end-spans[j].start
	})

	var columns [][]span
	assigned := make([]int, len(spans))
	for i, s := range spans {
		col := -1
		for c, members := range columns {
			if fits(s, members) {
				col = c
				break
			}
		}
		if col < 0 {
			columns = append(columns, nil)
			col = len(columns) - 1
		}
		columns[col] = append(columns[col], s)
		assigned[i] = col
	}

	total := len(columns)
	share := 100 / float64(total)
	out := make([]Positioned, len(spans))
	for i, s := range spans {
		out[i] = Positioned{
			Event:   s.event,
			Top:     toUnits(s.start, scale),
			Height:  math.Max(toUnits(s.end-s.start, scale), scale.MinHeight),
			Column:  assigned[i],
			Columns: total,
			Left:    float64(assigned[i]) * share,
			Width:   share - scale.Gutter,
		}
	}
	return out
}

func fits(s span, members []span) bool {
	for _, m := range members {
		if s.overlaps(m) {
			return false
		}
	}
	return true
}

func toUnits(minutes int, scale Scale) float64 {
	return float64(minutes) * scale.PixelsPerHour / 60
}

// ForDay filters events down to those on date, keeping their order.
func ForDay(events []calendar.Event, date string) []calendar.Event {
	var out []calendar.Event
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}
