package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/drag"
)

const mouseHelp = "Drag on empty space to create an event; a plain click opens the new event form for that day. " +
	"Drag an event to move it to another time or day. Times snap to 15 minutes. Esc cancels a drag."

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("weekcal help"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/←  l/→   - Previous / next week"),
		m.styles.Help.Render("  t          - This week"),
		m.styles.Help.Render("  g          - Go to date"),
		m.styles.Help.Render("  j/↓  k/↑   - Scroll hours"),
		m.styles.Help.Render("  tab        - Select next event"),
		"",
		m.styles.Normal.Render("Actions:"),
		m.styles.Help.Render("  n          - New event"),
		m.styles.Help.Render("  a          - Quick add (\"fri 2-3pm review\")"),
		m.styles.Help.Render("  e/enter    - Edit selected event"),
		m.styles.Help.Render("  d          - Delete selected event"),
		m.styles.Help.Render("  i          - Event details"),
		m.styles.Help.Render("  T          - Toggle light/dark theme"),
		m.styles.Help.Render("  r          - Reload"),
		m.styles.Help.Render("  ?          - Toggle help"),
		m.styles.Help.Render("  q          - Quit"),
		"",
		m.styles.Normal.Render("Mouse:"),
		m.styles.Help.Render(wordwrap.String(mouseHelp, max(min(m.width-4, 72), 20))),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewDetail() string {
	e, ok := m.selectedEvent()
	if !ok {
		return m.styles.Help.Render("(nothing selected)")
	}
	width := max(min(m.width-4, 60), 20)
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("Event"),
		"",
		m.describeEvent(e, width),
		"",
		m.styles.Help.Render("e: edit  d: delete  any other key: close"),
	)
	return m.styles.Border.Padding(0, 1).Render(content)
}

func (m *Model) viewConfirm() string {
	e, _ := m.store.Get(m.confirm)
	question := fmt.Sprintf("Delete %q on %s?", e.Title, m.formatDate(e.Date))
	width := max(min(m.width-4, 60), 20)
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Error.Render(wordwrap.String(question, width)),
		"",
		m.styles.Help.Render("y: delete  any other key: keep"),
	)
	return m.styles.Border.Padding(0, 1).Render(content)
}

// overlay draws box centered over the week grid.
func (m *Model) overlay(base, box string) string {
	x := max((m.width-lipgloss.Width(box))/2, 0)
	y := max((m.height-lipgloss.Height(box))/2, 0)
	return lipgloss.NewCanvas(
		lipgloss.NewLayer(base).Z(0),
		lipgloss.NewLayer(box).X(x).Y(y).Z(3000),
	).Render()
}

func (m *Model) renderStatusBar() string {
	var left string
	session := m.machine.Session()
	switch {
	case session.Active():
		left = " " + session.Mode.String()
		if p, ok := session.Preview(); ok {
			left += fmt.Sprintf(" %s %s", m.formatDate(p.Day), m.clockRange(p.StartMinute, p.EndMinute))
		}
	default:
		if e, ok := m.selectedEvent(); ok {
			left = fmt.Sprintf(" %s | %s %s-%s", e.Title, m.formatDate(e.Date), m.clock(e.StartTime), m.clock(e.EndTime))
		} else {
			left = fmt.Sprintf(" %s | Events: %d", m.now().Format(m.config.DateFormat), len(m.events))
		}
	}

	right := m.styles.Help.Render("? for help | q to quit")
	if m.message != "" {
		if m.messageErr {
			right = m.styles.Error.Render(m.message)
		} else {
			right = m.styles.Message.Render(m.message)
		}
	}

	left = ansi.Truncate(left, max(m.width-lipgloss.Width(right)-1, 0), "…")
	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left+middle) + right
}

func (m *Model) clockRange(start, end int) string {
	return fmt.Sprintf("%s-%s", m.clock(calendar.FormatClock(start)), m.clock(calendar.FormatClock(end)))
}

// dragHint is shown after a drag is committed.
func (m *Model) dragHint(out drag.Outcome) string {
	switch out.Kind {
	case drag.Create:
		return fmt.Sprintf("Created %s %s", m.formatDate(out.Day), m.clockRange(out.Start, out.End))
	case drag.Update:
		return fmt.Sprintf("Moved to %s %s", m.formatDate(out.Day), m.clockRange(out.Start, out.End))
	}
	return ""
}
