package ui

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/config"
	"github.com/cwarden/weekcal/internal/drag"
	"github.com/cwarden/weekcal/internal/log"
	"github.com/cwarden/weekcal/internal/parser"
	"github.com/cwarden/weekcal/internal/theme"
	"github.com/cwarden/weekcal/internal/week"
)

type ViewMode int

const (
	ViewWeek ViewMode = iota
	ViewHelp
	ViewForm
	ViewPrompt
	ViewConfirm
	ViewDetail
)

const messageTimeout = 3 * time.Second

type Model struct {
	// Core components
	config  *config.Config
	store   *calendar.EventStore
	themes  *theme.Service
	machine *drag.Machine
	parser  *parser.TimeParser
	now     func() time.Time

	// View state
	mode      ViewMode
	weekStart time.Time
	events    []calendar.Event
	scroll    int
	selected  string

	form    *eventForm
	prompt  *prompt
	confirm string // id awaiting delete confirmation

	// UI state
	width      int
	height     int
	message    string
	messageErr bool
	messageSeq int

	// themePolling is set while a themePollMsg tick is pending.
	themePolling bool

	// Styles
	styles Styles
}

func NewModel(cfg *config.Config, store *calendar.EventStore, themes *theme.Service) *Model {
	m := &Model{
		config:  cfg,
		store:   store,
		themes:  themes,
		machine: drag.NewMachine(store),
		parser:  parser.NewTimeParser(),
		now:     time.Now,
		mode:    ViewWeek,
		events:  store.List(),
		scroll:  cfg.DayStartHour * max(cfg.RowsPerHour, 1),
	}
	m.weekStart = week.Start(m.now(), cfg.WeekStartDay)
	m.styles = NewStyles(themes.Current(), cfg.Colors)

	store.Subscribe(func(events []calendar.Event) {
		m.events = events
		if _, ok := m.store.Get(m.selected); !ok {
			m.selected = ""
		}
	})
	themes.Subscribe(func(th theme.Theme) {
		m.styles = NewStyles(th, m.config.Colors)
	})

	return m
}

// SetClock replaces the time source, for tests and replays.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
	m.weekStart = week.Start(now(), m.config.WeekStartDay)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.themePollCmd(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.setScroll(m.scroll)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case StoreChangedMsg:
		log.Debug("store changed on disk", "path", msg.Path)
		return m, m.reload()

	case tickMsg:
		if !m.config.AutoRefresh {
			return m, nil
		}
		return m, tea.Batch(m.reload(), m.tickCmd())

	case themePollMsg:
		m.themePolling = false
		m.themes.RefreshSystem()
		return m, m.themePollCmd()

	case messageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
			m.messageErr = false
		}
		return m, nil
	}

	// Anything else (cursor blinks) belongs to the focused input.
	switch m.mode {
	case ViewForm:
		return m, m.form.update(msg)
	case ViewPrompt:
		return m, m.prompt.update(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	base := m.renderCanvasView()
	switch m.mode {
	case ViewHelp:
		return m.viewHelp()
	case ViewForm:
		return m.overlay(base, m.form.view(m.styles, m.width))
	case ViewPrompt:
		return m.overlay(base, m.prompt.view(m.styles, m.width))
	case ViewConfirm:
		return m.overlay(base, m.viewConfirm())
	case ViewDetail:
		return m.overlay(base, m.viewDetail())
	}
	return base
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	model, cmd := m.dispatchKey(msg)
	// Mouse input only reaches the grid in the week view, so a drag that
	// loses it would never see its release.
	if m.mode != ViewWeek && m.machine.Session().Active() {
		m.machine.Cancel()
	}
	return model, cmd
}

func (m *Model) dispatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Mode-specific handling
	switch m.mode {
	case ViewForm:
		return m.handleFormKeys(msg)
	case ViewPrompt:
		return m.handlePromptKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewHelp:
		m.mode = ViewWeek
		return m, nil
	case ViewDetail:
		m.mode = ViewWeek
		switch m.config.KeyBindings[msg.String()] {
		case "edit_event", "delete_event":
			return m.handleWeekKeys(msg)
		}
		return m, nil
	}

	return m.handleWeekKeys(msg)
}

func (m *Model) handleWeekKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if m.machine.Session().Active() {
			m.machine.Cancel()
			return m, m.showMessage("Drag cancelled")
		}
		m.selected = ""
		return m, nil
	}

	switch m.config.KeyBindings[msg.String()] {
	case "quit":
		return m, tea.Quit

	case "help":
		m.mode = ViewHelp

	case "today":
		m.goToDate(m.now())

	case "next_week":
		m.weekStart = week.Next(m.weekStart)

	case "prev_week":
		m.weekStart = week.Prev(m.weekStart)

	case "scroll_down":
		m.setScroll(m.scroll + 1)

	case "scroll_up":
		m.setScroll(m.scroll - 1)

	case "refresh":
		return m, tea.Batch(m.reload(), m.showMessage("Reloaded"))

	case "new_event":
		return m, m.openNewForm(m.defaultDay(), m.config.DayStartHour*60)

	case "quick_add":
		return m, m.openPrompt(promptQuickAdd)

	case "goto_date":
		return m, m.openPrompt(promptGoto)

	case "edit_event":
		if e, ok := m.selectedEvent(); ok {
			return m, m.openEditForm(e)
		}
		return m, m.showMessage("No event selected")

	case "delete_event":
		e, ok := m.selectedEvent()
		if !ok {
			return m, m.showMessage("No event selected")
		}
		if m.config.ConfirmDelete {
			m.confirm = e.ID
			m.mode = ViewConfirm
			return m, nil
		}
		return m, m.deleteEvent(e.ID)

	case "next_event":
		m.cycleSelection(1)

	case "prev_event":
		m.cycleSelection(-1)

	case "show_details":
		if _, ok := m.selectedEvent(); ok {
			m.mode = ViewDetail
		}

	case "toggle_theme":
		if err := m.themes.Toggle(); err != nil {
			return m, m.showError(err)
		}
		return m, m.showMessage(fmt.Sprintf("Theme: %s", m.themes.Current()))
	}

	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ViewWeek {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.setScroll(m.scroll - 1)

	case msg.Button == tea.MouseButtonWheelDown:
		m.setScroll(m.scroll + 1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		// A press while a drag is active means its release was lost.
		if m.machine.Session().Active() {
			m.machine.Cancel()
		}
		p, ok := m.pointerAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if b, hit := m.hitBlock(msg.X, msg.Y); hit {
			m.selected = b.event.ID
			m.machine.PointerDownOnEvent(p, b.event)
			return m, nil
		}
		m.machine.PointerDown(p)

	case msg.Action == tea.MouseActionMotion:
		if m.machine.Session().Active() {
			p, _ := m.pointerAt(msg.X, msg.Y)
			m.machine.PointerMove(p)
		}

	case msg.Action == tea.MouseActionRelease:
		return m, m.finishDrag()
	}

	return m, nil
}

// finishDrag releases the drag machine. Creates and moves are already
// stored when it returns; a plain click opens the form.
func (m *Model) finishDrag() tea.Cmd {
	session := m.machine.Session()
	if !session.Active() {
		return nil
	}

	out, err := m.machine.PointerUp()
	if err != nil {
		log.Error("drag commit failed", err, "kind", out.Kind)
		return m.showError(err)
	}

	switch out.Kind {
	case drag.OpenForm:
		return m.openNewForm(out.Day, session.Anchor)
	case drag.Create:
		m.selectLatest(out)
		return m.showMessage(m.dragHint(out))
	case drag.Update:
		m.selected = out.EventID
		return m.showMessage(m.dragHint(out))
	}
	return nil
}

// selectLatest selects the event a create drag just stored.
func (m *Model) selectLatest(out drag.Outcome) {
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if e.Date == out.Day && e.StartMinutes() == out.Start && e.EndMinutes() == out.End {
			m.selected = e.ID
			return
		}
	}
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = ViewWeek
		return m, nil
	case "tab", "down":
		return m, m.form.next()
	case "shift+tab", "up":
		return m, m.form.prev()
	case "ctrl+s":
		return m, m.submitForm()
	case "enter":
		if m.form.focus < fieldCount-1 {
			return m, m.form.next()
		}
		return m, m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m *Model) submitForm() tea.Cmd {
	m.parser.SetNow(m.now())
	fields, err := m.form.fields(m.parser)
	if err != nil {
		m.form.err = err
		return nil
	}

	if m.form.editing() {
		err = m.store.Update(m.form.id, calendar.FullPatch(fields))
	} else {
		var e calendar.Event
		e, err = m.store.Create(fields)
		m.selected = e.ID
	}
	if err != nil {
		m.form.err = err
		return nil
	}

	verb := "Created"
	if m.form.editing() {
		verb = "Updated"
		m.selected = m.form.id
	}
	m.form = nil
	m.mode = ViewWeek
	m.reveal(fields.Date, fields.StartTime)
	return m.showMessage(fmt.Sprintf("%s %q", verb, fields.Title))
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = nil
		m.mode = ViewWeek
		return m, nil
	case "enter":
		return m, m.submitPrompt()
	}
	return m, m.prompt.update(msg)
}

func (m *Model) submitPrompt() tea.Cmd {
	m.parser.SetNow(m.now())
	text := m.prompt.input.Value()

	switch m.prompt.kind {
	case promptQuickAdd:
		fields, err := m.parser.QuickAdd(text, m.config.DefaultDuration)
		if err != nil {
			m.prompt.err = err
			return nil
		}
		e, err := m.store.Create(fields)
		if err != nil {
			m.prompt.err = err
			return nil
		}
		m.selected = e.ID
		m.prompt = nil
		m.mode = ViewWeek
		m.reveal(e.Date, e.StartTime)
		return m.showMessage(fmt.Sprintf("Created %q", e.Title))

	case promptGoto:
		date, err := m.parser.ParseDateExpr(text)
		if err != nil {
			m.prompt.err = err
			return nil
		}
		m.prompt = nil
		m.mode = ViewWeek
		m.goToDate(date)
		return m.showMessage(fmt.Sprintf("Week of %s", week.Label(m.weekStart)))
	}
	return nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirm
	m.confirm = ""
	m.mode = ViewWeek
	if msg.String() == "y" || msg.String() == "Y" {
		return m, m.deleteEvent(id)
	}
	return m, m.showMessage("Kept")
}

func (m *Model) deleteEvent(id string) tea.Cmd {
	e, _ := m.store.Get(id)
	if err := m.store.Delete(id); err != nil {
		return m.showError(err)
	}
	if m.selected == id {
		m.selected = ""
	}
	return m.showMessage(fmt.Sprintf("Deleted %q", e.Title))
}

func (m *Model) openNewForm(date string, start int) tea.Cmd {
	end := start + m.config.DefaultDuration
	if end > calendar.MinutesPerDay {
		end = calendar.MinutesPerDay
		start = max(end-m.config.DefaultDuration, 0)
	}
	m.form = newEventForm("", calendar.Fields{
		Date:      date,
		StartTime: calendar.FormatClock(start),
		EndTime:   calendar.FormatClock(end),
	})
	m.mode = ViewForm
	return m.form.inputs[fieldTitle].Focus()
}

func (m *Model) openEditForm(e calendar.Event) tea.Cmd {
	m.form = newEventForm(e.ID, e.Fields())
	m.mode = ViewForm
	return m.form.inputs[fieldTitle].Focus()
}

func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.prompt = newPrompt(kind)
	m.mode = ViewPrompt
	return m.prompt.input.Focus()
}

// reload re-reads the store and the theme preference, which may have been
// changed by another process. A preference that went back to system
// restarts the theme poll.
func (m *Model) reload() tea.Cmd {
	if err := m.store.Reload(); err != nil {
		log.Error("reloading events failed", err)
		return m.showError(err)
	}
	if err := m.themes.Reload(); err != nil {
		log.Error("reloading theme failed", err)
		return m.showError(err)
	}
	return m.themePollCmd()
}

func (m *Model) days() [7]week.Day {
	return week.Days(m.weekStart, m.now())
}

// defaultDay is today when it is in view, else the first visible day.
func (m *Model) defaultDay() string {
	today := calendar.FormatDate(m.now())
	if week.Contains(m.weekStart, today) {
		return today
	}
	return calendar.FormatDate(m.weekStart)
}

func (m *Model) goToDate(t time.Time) {
	m.weekStart = week.Start(t, m.config.WeekStartDay)
}

// reveal moves the view so that date and the start time are visible.
func (m *Model) reveal(date, start string) {
	if t, err := calendar.ParseDate(date); err == nil && !week.Contains(m.weekStart, date) {
		m.goToDate(t)
	}
	g := m.geometry()
	row := calendar.MinutesOf(start) * g.rowsPerHour / 60
	if row < m.scroll || row >= m.scroll+g.bodyRows {
		m.setScroll(row - g.bodyRows/3)
	}
}

func (m *Model) setScroll(row int) {
	m.scroll = max(min(row, m.geometry().maxScroll()), 0)
}

func (m *Model) selectedEvent() (calendar.Event, bool) {
	if m.selected == "" {
		return calendar.Event{}, false
	}
	return m.store.Get(m.selected)
}

// weekEvents lists the visible week's events by date and start.
func (m *Model) weekEvents() []calendar.Event {
	var out []calendar.Event
	for _, e := range m.events {
		if week.Contains(m.weekStart, e.Date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartMinutes() < out[j].StartMinutes()
	})
	return out
}

func (m *Model) cycleSelection(step int) {
	events := m.weekEvents()
	if len(events) == 0 {
		m.selected = ""
		return
	}
	idx := -1
	for i, e := range events {
		if e.ID == m.selected {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && step > 0:
		idx = 0
	case idx < 0:
		idx = len(events) - 1
	default:
		idx = (idx + step + len(events)) % len(events)
	}
	m.selected = events[idx].ID
	m.reveal(events[idx].Date, events[idx].StartTime)
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageErr = false
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return messageTimeoutMsg{seq: seq}
	})
}

func (m *Model) showError(err error) tea.Cmd {
	cmd := m.showMessage(fmt.Sprintf("Error: %v", err))
	m.messageErr = true
	return cmd
}

func (m *Model) tickCmd() tea.Cmd {
	if !m.config.AutoRefresh || m.config.RefreshRate <= 0 {
		return nil
	}
	return tea.Tick(m.config.RefreshRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// themePollCmd schedules the next system theme check. Only one tick is
// ever pending; it lapses while the preference is light or dark and is
// restarted by reload.
func (m *Model) themePollCmd() tea.Cmd {
	if m.themePolling || m.config.ThemePoll <= 0 || m.themes.Preference() != theme.PreferSystem {
		return nil
	}
	m.themePolling = true
	return tea.Tick(m.config.ThemePoll, func(time.Time) tea.Msg {
		return themePollMsg{}
	})
}

// Message types
type tickMsg struct{}
type themePollMsg struct{}
type messageTimeoutMsg struct {
	seq int
}
