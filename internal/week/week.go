package week

import (
	"fmt"
	"time"

	"github.com/cwarden/weekcal/internal/calendar"
)

// Day is one column of the week grid.
type Day struct {
	Date    time.Time
	Key     string // YYYY-MM-DD
	Name    string // Mon, Tue, ...
	IsToday bool
}

// Start returns midnight of the first day of the week containing t.
func Start(t time.Time, first time.Weekday) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(d.Weekday()) - int(first) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// Days lists the seven days from start.
func Days(start, today time.Time) [7]Day {
	var days [7]Day
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = Day{
			Date:    d,
			Key:     calendar.FormatDate(d),
			Name:    d.Format("Mon"),
			IsToday: sameDay(d, today),
		}
	}
	return days
}

// Label renders the range, e.g. "Mar 10 - 16, 2025" or "Mar 31 - Apr 6, 2025".
// The year is the start's.
func Label(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d - %d, %d", start.Format("Jan"), start.Day(), end.Day(), start.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d", start.Format("Jan"), start.Day(), end.Format("Jan"), end.Day(), start.Year())
}

func Next(start time.Time) time.Time {
	return start.AddDate(0, 0, 7)
}

func Prev(start time.Time) time.Time {
	return start.AddDate(0, 0, -7)
}

// Contains reports whether date (YYYY-MM-DD) falls in the week from start.
func Contains(start time.Time, date string) bool {
	from := calendar.FormatDate(start)
	to := calendar.FormatDate(start.AddDate(0, 0, 6))
	return date >= from && date <= to
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
