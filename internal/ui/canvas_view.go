package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/drag"
	"github.com/cwarden/weekcal/internal/layout"
	"github.com/cwarden/weekcal/internal/week"
)

const (
	headerRows     = 2 // week label and day names
	statusRows     = 1
	minColWidth    = 4
	sidebarWidth   = 26
	sidebarMinTerm = 110
)

// geometry maps between screen cells and grid positions. It is derived from
// the window size and config on every use.
type geometry struct {
	timeWidth   int
	colWidth    int
	bodyTop     int
	bodyRows    int
	rowsPerHour int
	scroll      int

	sidebarX     int
	sidebarWidth int
}

func (m *Model) geometry() geometry {
	g := geometry{
		bodyTop:     headerRows,
		rowsPerHour: max(m.config.RowsPerHour, 1),
		scroll:      m.scroll,
	}
	g.timeWidth = ansi.StringWidth(calendar.DisplayClock("22:00", m.config.TimeFormat)) + 1

	gridWidth := m.width
	if m.width >= sidebarMinTerm {
		g.sidebarWidth = sidebarWidth
		gridWidth = m.width - sidebarWidth - 1
		g.sidebarX = gridWidth + 1
	}
	g.colWidth = max((gridWidth-g.timeWidth)/7, minColWidth)
	g.bodyRows = max(m.height-headerRows-statusRows, 1)
	return g
}

func (g geometry) totalRows() int {
	return 24 * g.rowsPerHour
}

func (g geometry) maxScroll() int {
	return max(g.totalRows()-g.bodyRows, 0)
}

func (g geometry) dayX(day int) int {
	return g.timeWidth + day*g.colWidth
}

// dayAt returns the day column under screen column x.
func (g geometry) dayAt(x int) (int, bool) {
	if x < g.timeWidth {
		return 0, false
	}
	day := (x - g.timeWidth) / g.colWidth
	if day > 6 {
		return 0, false
	}
	return day, true
}

// minuteAt converts a screen row to minutes since midnight, using the top
// of the row. Rows outside the body give minutes outside the day, which the
// drag machine clamps.
func (g geometry) minuteAt(y int) int {
	row := y - g.bodyTop + g.scroll
	return int(math.Floor(float64(row) * 60 / float64(g.rowsPerHour)))
}

// rowOf is the inverse of minuteAt for the first row covering minute.
func (g geometry) rowOf(minute int) int {
	return int(math.Floor(float64(minute)*float64(g.rowsPerHour)/60)) - g.scroll + g.bodyTop
}

func (g geometry) scale() layout.Scale {
	return layout.Scale{
		PixelsPerHour: float64(g.rowsPerHour),
		MinHeight:     1,
		// one cell, so neighbouring columns do not touch
		Gutter: 100 / float64(g.colWidth),
	}
}

// block is an event placed on screen, clipped to the visible body.
type block struct {
	event  calendar.Event
	day    int
	x, y   int
	width  int
	height int
	// clipped is set when the event starts above the visible rows.
	clipped bool
}

func (b block) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.width && y >= b.y && y < b.y+b.height
}

// blocks lays out every event of the visible week and maps it to screen cells.
func (m *Model) blocks() []block {
	g := m.geometry()
	days := m.days()
	scale := g.scale()

	var out []block
	for d, day := range days {
		placed := layout.Compute(layout.ForDay(m.events, day.Key), scale)
		for _, p := range placed {
			top := int(math.Floor(p.Top))
			bottom := int(math.Ceil(p.Top + p.Height))
			visTop := max(top, g.scroll)
			visBottom := min(bottom, g.scroll+g.bodyRows)
			if visBottom <= visTop {
				continue
			}

			cw := float64(g.colWidth)
			x := g.dayX(d) + int(math.Round(p.Left*cw/100))
			w := max(int(math.Floor(p.Width*cw/100)), 1)

			out = append(out, block{
				event:   p.Event,
				day:     d,
				x:       x,
				y:       visTop - g.scroll + g.bodyTop,
				width:   w,
				height:  visBottom - visTop,
				clipped: top < g.scroll,
			})
		}
	}
	return out
}

// hitBlock finds the top-most block under (x, y).
func (m *Model) hitBlock(x, y int) (block, bool) {
	blocks := m.blocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].contains(x, y) {
			return blocks[i], true
		}
	}
	return block{}, false
}

// pointerAt turns a screen cell into a drag pointer. ok reports whether the
// cell is inside the grid body; Day is empty when x is outside the columns.
func (m *Model) pointerAt(x, y int) (drag.Pointer, bool) {
	g := m.geometry()
	p := drag.Pointer{Minute: g.minuteAt(y)}
	day, inColumns := g.dayAt(x)
	if inColumns {
		p.Day = m.days()[day].Key
	}
	inBody := y >= g.bodyTop && y < g.bodyTop+g.bodyRows
	return p, inColumns && inBody
}

// renderCanvasView renders the week grid using a lipgloss Canvas.
func (m *Model) renderCanvasView() string {
	g := m.geometry()

	var layers []*lipgloss.Layer
	layers = append(layers, m.createHeaderLayers(g)...)
	layers = append(layers, m.createTimeColumnLayers(g)...)
	layers = append(layers, m.createGridLayers(g)...)
	layers = append(layers, m.createNowLayer(g)...)
	layers = append(layers, m.createEventBlockLayers()...)
	layers = append(layers, m.createPreviewLayers(g)...)

	if g.sidebarWidth > 0 {
		layers = append(layers, m.createSidebarLayer(g.sidebarX, g.sidebarWidth))
	}
	layers = append(layers, m.createStatusBarLayers(g)...)

	return lipgloss.NewCanvas(layers...).Render()
}

func (m *Model) createHeaderLayers(g geometry) []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	label := week.Label(m.weekStart)
	title := m.styles.Header.Render(label) + m.styles.Dim.Render(fmt.Sprintf("  [%s]", m.themes.Current()))
	layers = append(layers, lipgloss.NewLayer(title).X(g.timeWidth).Y(0).Z(0))

	for d, day := range m.days() {
		style := m.styles.DayHeader
		if day.Date.Weekday() == 0 || day.Date.Weekday() == 6 {
			style = m.styles.Weekend
		}
		if day.IsToday {
			style = m.styles.Today
		}
		name := fmt.Sprintf("%s %d", day.Name, day.Date.Day())
		name = ansi.Truncate(name, g.colWidth-1, "")
		layers = append(layers, lipgloss.NewLayer(style.Render(name)).X(g.dayX(d)).Y(1).Z(0))
	}
	return layers
}

// createTimeColumnLayers labels each visible hour.
func (m *Model) createTimeColumnLayers(g geometry) []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	for i := 0; i < g.bodyRows; i++ {
		row := g.scroll + i
		if row >= g.totalRows() {
			break
		}
		if row%g.rowsPerHour != 0 {
			continue
		}
		hour := row / g.rowsPerHour
		label := calendar.DisplayClock(calendar.FormatClock(hour*60), m.config.TimeFormat)
		layers = append(layers, lipgloss.NewLayer(m.styles.TimeLabel.Render(label)).X(0).Y(g.bodyTop+i).Z(0))
	}
	return layers
}

// createGridLayers draws one column per day with a separator in the gutter
// cell and a faint rule on each hour.
func (m *Model) createGridLayers(g geometry) []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	rows := min(g.bodyRows, g.totalRows()-g.scroll)
	if rows <= 0 {
		return nil
	}
	lines := make([]string, rows)
	for i := range lines {
		fill := " "
		if (g.scroll+i)%g.rowsPerHour == 0 {
			fill = "·"
		}
		lines[i] = strings.Repeat(fill, g.colWidth-1) + "│"
	}
	column := m.styles.GridLine.Render(strings.Join(lines, "\n"))
	for d := 0; d < 7; d++ {
		layers = append(layers, lipgloss.NewLayer(column).X(g.dayX(d)).Y(g.bodyTop).Z(0))
	}
	return layers
}

// createNowLayer marks the current time in today's column.
func (m *Model) createNowLayer(g geometry) []*lipgloss.Layer {
	now := m.now()
	for d, day := range m.days() {
		if !day.IsToday {
			continue
		}
		y := g.rowOf(now.Hour()*60 + now.Minute())
		if y < g.bodyTop || y >= g.bodyTop+g.bodyRows {
			return nil
		}
		line := m.styles.NowLine.Render(strings.Repeat("─", g.colWidth-1))
		return []*lipgloss.Layer{lipgloss.NewLayer(line).X(g.dayX(d)).Y(y).Z(1)}
	}
	return nil
}

// createEventBlockLayers creates one layer per visible event.
func (m *Model) createEventBlockLayers() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	session := m.machine.Session()

	for i, b := range m.blocks() {
		style := m.eventStyle(b.event)
		if b.event.ID == m.selected {
			style = m.styles.EventSelected
		}
		if session.Mode == drag.Moving && session.EventID == b.event.ID {
			style = style.Faint(true)
		}

		lines := []string{ansi.Truncate(b.event.Title, b.width, "…")}
		if b.height > 1 {
			span := m.clock(b.event.StartTime) + "-" + m.clock(b.event.EndTime)
			lines = append(lines, ansi.Truncate(span, b.width, "…"))
		}
		if b.clipped {
			lines[0] = ansi.Truncate("↑ "+b.event.Title, b.width, "…")
		}

		content := style.
			Width(b.width).
			Height(b.height).
			MaxHeight(b.height).
			Render(strings.Join(lines, "\n"))

		layers = append(layers, lipgloss.NewLayer(content).X(b.x).Y(b.y).Z(10+i))
	}
	return layers
}

// createPreviewLayers draws the live rectangle of an in-progress drag.
func (m *Model) createPreviewLayers(g geometry) []*lipgloss.Layer {
	preview, ok := m.machine.Session().Preview()
	if !ok {
		return nil
	}
	d := m.dayIndex(preview.Day)
	if d < 0 {
		return nil
	}

	top := g.rowOf(preview.StartMinute)
	bottom := g.rowOf(preview.EndMinute)
	if preview.EndMinute*g.rowsPerHour%60 != 0 {
		bottom++
	}
	bottom = max(bottom, top+1)
	top = max(top, g.bodyTop)
	bottom = min(bottom, g.bodyTop+g.bodyRows)
	if bottom <= top {
		return nil
	}

	label := m.clockRange(preview.StartMinute, preview.EndMinute)
	width := g.colWidth - 1
	content := m.styles.Preview.
		Width(width).
		Height(bottom - top).
		Render(ansi.Truncate(label, width, "…"))
	return []*lipgloss.Layer{lipgloss.NewLayer(content).X(g.dayX(d)).Y(top).Z(900)}
}

// createStatusBarLayers creates the status line at the bottom of the screen.
func (m *Model) createStatusBarLayers(g geometry) []*lipgloss.Layer {
	y := g.bodyTop + g.bodyRows
	return []*lipgloss.Layer{
		lipgloss.NewLayer(m.renderStatusBar()).X(0).Y(y).Z(2000),
	}
}

// dayIndex is the column of date in the visible week, or -1.
func (m *Model) dayIndex(date string) int {
	for i, d := range m.days() {
		if d.Key == date {
			return i
		}
	}
	return -1
}
