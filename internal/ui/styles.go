package ui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/cwarden/weekcal/internal/theme"
)

type Styles struct {
	Normal        lipgloss.Style
	Dim           lipgloss.Style
	Selected      lipgloss.Style
	Today         lipgloss.Style
	Weekend       lipgloss.Style
	Header        lipgloss.Style
	DayHeader     lipgloss.Style
	TimeLabel     lipgloss.Style
	GridLine      lipgloss.Style
	NowLine       lipgloss.Style
	Event         lipgloss.Style
	EventSelected lipgloss.Style
	Preview       lipgloss.Style
	Help          lipgloss.Style
	Message       lipgloss.Style
	Error         lipgloss.Style
	Border        lipgloss.Style
	Input         lipgloss.Style
}

// palette is the set of colors a theme is built from.
type palette struct {
	fg, dim, accent, weekend, grid, now color.Color
	eventBg, eventFg                    color.Color
	selectedBg, selectedFg              color.Color
	previewBg, previewFg                color.Color
	messageBg, err                      color.Color
}

var palettes = map[theme.Theme]palette{
	theme.Dark: {
		fg:         lipgloss.Color("252"),
		dim:        lipgloss.Color("241"),
		accent:     lipgloss.Color("220"),
		weekend:    lipgloss.Color("39"),
		grid:       lipgloss.Color("237"),
		now:        lipgloss.Color("196"),
		eventBg:    lipgloss.Color("63"),
		eventFg:    lipgloss.Color("231"),
		selectedBg: lipgloss.Color("220"),
		selectedFg: lipgloss.Color("235"),
		previewBg:  lipgloss.Color("40"),
		previewFg:  lipgloss.Color("235"),
		messageBg:  lipgloss.Color("235"),
		err:        lipgloss.Color("203"),
	},
	theme.Light: {
		fg:         lipgloss.Color("235"),
		dim:        lipgloss.Color("244"),
		accent:     lipgloss.Color("130"),
		weekend:    lipgloss.Color("25"),
		grid:       lipgloss.Color("252"),
		now:        lipgloss.Color("160"),
		eventBg:    lipgloss.Color("111"),
		eventFg:    lipgloss.Color("232"),
		selectedBg: lipgloss.Color("214"),
		selectedFg: lipgloss.Color("232"),
		previewBg:  lipgloss.Color("114"),
		previewFg:  lipgloss.Color("232"),
		messageBg:  lipgloss.Color("254"),
		err:        lipgloss.Color("160"),
	},
}

// NewStyles builds the styles for th. colors overrides individual elements
// by name (today, header, event, selected, preview, weekend), as set by
// "color" lines in the rc file.
func NewStyles(th theme.Theme, colors map[string]string) Styles {
	p, ok := palettes[th]
	if !ok {
		p = palettes[theme.Dark]
	}
	override := func(name string, c *color.Color) {
		if spec, ok := colors[name]; ok && spec != "" {
			*c = lipgloss.Color(spec)
		}
	}
	override("today", &p.accent)
	override("header", &p.accent)
	override("event", &p.eventBg)
	override("selected", &p.selectedBg)
	override("preview", &p.previewBg)
	override("weekend", &p.weekend)

	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(p.fg),
		Dim: lipgloss.NewStyle().
			Foreground(p.dim),
		Selected: lipgloss.NewStyle().
			Foreground(p.selectedFg).
			Background(p.selectedBg).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		Weekend: lipgloss.NewStyle().
			Foreground(p.weekend),
		Header: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		DayHeader: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),
		TimeLabel: lipgloss.NewStyle().
			Foreground(p.dim),
		GridLine: lipgloss.NewStyle().
			Foreground(p.grid),
		NowLine: lipgloss.NewStyle().
			Foreground(p.now),
		Event: lipgloss.NewStyle().
			Foreground(p.eventFg).
			Background(p.eventBg),
		EventSelected: lipgloss.NewStyle().
			Foreground(p.selectedFg).
			Background(p.selectedBg).
			Bold(true),
		Preview: lipgloss.NewStyle().
			Foreground(p.previewFg).
			Background(p.previewBg),
		Help: lipgloss.NewStyle().
			Foreground(p.dim),
		Message: lipgloss.NewStyle().
			Foreground(p.accent).
			Background(p.messageBg).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(p.err).
			Bold(true),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.dim),
		Input: lipgloss.NewStyle().
			Foreground(p.fg).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
	}
}
