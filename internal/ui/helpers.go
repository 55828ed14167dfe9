package ui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/theme"
	"github.com/cwarden/weekcal/internal/week"
)

// eventStyle picks a block style. Unless the rc file sets an event color,
// longer events get deeper shades.
func (m *Model) eventStyle(e calendar.Event) lipgloss.Style {
	if _, ok := m.config.Colors["event"]; ok {
		return m.styles.Event
	}
	return m.styles.Event.Background(eventBackground(e, m.themes.Current()))
}

func eventBackground(e calendar.Event, th theme.Theme) color.Color {
	hours := float64(e.Duration()) / 60
	if th == theme.Light {
		switch {
		case hours >= 4:
			return lipgloss.Color("105")
		case hours >= 2:
			return lipgloss.Color("111")
		case hours >= 1:
			return lipgloss.Color("117")
		default:
			return lipgloss.Color("153")
		}
	}
	switch {
	case hours >= 4:
		return lipgloss.Color("54") // dark purple for long events
	case hours >= 2:
		return lipgloss.Color("61")
	case hours >= 1:
		return lipgloss.Color("63")
	default:
		return lipgloss.Color("99") // light purple for brief events
	}
}

// clock formats an HH:mm value with the configured time format.
func (m *Model) clock(hhmm string) string {
	return calendar.DisplayClock(hhmm, m.config.TimeFormat)
}

// formatDate formats a YYYY-MM-DD value with the configured date format.
func (m *Model) formatDate(date string) string {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format(m.config.DateFormat)
}

func formatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case minutes <= 0:
		return "0m"
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// createSidebarLayer holds the month calendar and the selected event.
func (m *Model) createSidebarLayer(xOffset, width int) *lipgloss.Layer {
	return lipgloss.NewLayer(m.renderSidebar(width)).
		X(xOffset).
		Y(0).
		Z(1000)
}

func (m *Model) renderSidebar(width int) string {
	var lines []string

	lines = append(lines, m.renderMiniCalendar())
	lines = append(lines, "")

	lines = append(lines, m.styles.Header.Render("Selected"))
	lines = append(lines, m.renderSelectedEvent(width))
	lines = append(lines, "")

	count := 0
	for _, e := range m.events {
		if week.Contains(m.weekStart, e.Date) {
			count++
		}
	}
	lines = append(lines, m.styles.Help.Render(fmt.Sprintf("%d events this week", count)))

	return strings.Join(lines, "\n")
}

// renderMiniCalendar renders the month containing the visible week, with
// that week highlighted.
func (m *Model) renderMiniCalendar() string {
	var lines []string

	anchor := m.weekStart.AddDate(0, 0, 3)
	lines = append(lines, m.styles.Header.Render(anchor.Format("January 2006")))

	first := m.config.WeekStartDay
	var names []string
	for i := 0; i < 7; i++ {
		names = append(names, time.Weekday((int(first) + i) % 7).String()[:2])
	}
	lines = append(lines, strings.Join(names, " "))

	firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	day := week.Start(firstOfMonth, first)
	today := m.now()

	for row := 0; row < 6; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			cell := fmt.Sprintf("%2d", day.Day())
			key := calendar.FormatDate(day)

			switch {
			case day.Month() != anchor.Month():
				cell = m.styles.Dim.Render(cell)
			case key == calendar.FormatDate(today):
				cell = m.styles.Today.Render(cell)
			case week.Contains(m.weekStart, key):
				cell = m.styles.Selected.Render(cell)
			case day.Weekday() == time.Saturday || day.Weekday() == time.Sunday:
				cell = m.styles.Weekend.Render(cell)
			default:
				cell = m.styles.Normal.Render(cell)
			}
			cells = append(cells, cell)
			day = day.AddDate(0, 0, 1)
		}
		lines = append(lines, strings.Join(cells, " "))

		if day.Month() != anchor.Month() && row > 3 {
			break
		}
	}

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderSelectedEvent describes the selected event, wrapped to width.
func (m *Model) renderSelectedEvent(width int) string {
	e, ok := m.selectedEvent()
	if !ok {
		return m.styles.Help.Render("(nothing selected)")
	}
	return m.describeEvent(e, width)
}

func (m *Model) describeEvent(e calendar.Event, width int) string {
	maxWidth := max(width-2, 10)

	var lines []string
	for _, line := range strings.Split(wordwrap.String(e.Title, maxWidth), "\n") {
		lines = append(lines, m.styles.Normal.Bold(true).Render(line))
	}
	lines = append(lines, m.styles.Normal.Render(m.formatDate(e.Date)))

	span := fmt.Sprintf("%s - %s (%s)", m.clock(e.StartTime), m.clock(e.EndTime), formatDuration(e.Duration()))
	lines = append(lines, m.styles.Normal.Render(wordwrap.String(span, maxWidth)))
	lines = append(lines, m.styles.Dim.Render(wordwrap.String("id "+e.ID, maxWidth)))
	return strings.Join(lines, "\n")
}
