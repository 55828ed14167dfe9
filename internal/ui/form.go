package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/parser"
)

const (
	fieldTitle = iota
	fieldDate
	fieldStart
	fieldEnd
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Date", "Start", "End"}

// eventForm edits the four fields of an event. Date and times accept the
// same loose forms as quick-add ("tomorrow", "2pm") and are normalized on
// submit.
type eventForm struct {
	id     string // empty when creating
	inputs [fieldCount]textinput.Model
	focus  int
	err    error
}

func newEventForm(id string, f calendar.Fields) *eventForm {
	form := &eventForm{id: id}
	values := [fieldCount]string{f.Title, f.Date, f.StartTime, f.EndTime}
	placeholders := [fieldCount]string{"Meeting", "YYYY-MM-DD or tomorrow", "09:00 or 9am", "10:00 or 10am"}

	for i := range form.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		in.Width = 32
		in.SetValue(values[i])
		form.inputs[i] = in
	}
	form.inputs[fieldTitle].Focus()
	return form
}

func (f *eventForm) editing() bool {
	return f.id != ""
}

func (f *eventForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *eventForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *eventForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f *eventForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// fields normalizes and validates the input.
func (f *eventForm) fields(p *parser.TimeParser) (calendar.Fields, error) {
	out := calendar.Fields{Title: strings.TrimSpace(f.inputs[fieldTitle].Value())}

	normalize := func(i int, fn func(string) (string, error), sentinel error) (string, error) {
		raw := strings.TrimSpace(f.inputs[i].Value())
		if raw == "" {
			return "", nil
		}
		v, err := fn(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q", sentinel, raw)
		}
		return v, nil
	}

	var err error
	if out.Date, err = normalize(fieldDate, p.NormalizeDate, calendar.ErrInvalidDate); err != nil {
		return out, err
	}
	if out.StartTime, err = normalize(fieldStart, p.NormalizeTime, calendar.ErrInvalidTime); err != nil {
		return out, err
	}
	if out.EndTime, err = normalize(fieldEnd, p.NormalizeTime, calendar.ErrInvalidTime); err != nil {
		return out, err
	}
	return out, calendar.Validate(out)
}

func (f *eventForm) view(styles Styles, width int) string {
	var lines []string

	title := "New Event"
	if f.editing() {
		title = "Edit Event"
	}
	lines = append(lines, styles.Header.Render(title), "")

	for i, in := range f.inputs {
		label := fmt.Sprintf("%-6s", fieldLabels[i])
		if i == f.focus {
			label = styles.Today.Render(label)
		} else {
			label = styles.Dim.Render(label)
		}
		lines = append(lines, label+" "+in.View())
	}

	lines = append(lines, "")
	if f.err != nil {
		lines = append(lines, styles.Error.Render(wordwrap.String(f.err.Error(), max(width-4, 20))))
	}
	lines = append(lines, styles.Help.Render("tab: next field  enter: save  esc: cancel"))

	return styles.Border.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type promptKind int

const (
	promptQuickAdd promptKind = iota
	promptGoto
)

// prompt is a one-line input for quick-add and goto-date.
type prompt struct {
	kind  promptKind
	input textinput.Model
	err   error
}

func newPrompt(kind promptKind) *prompt {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 200
	in.Width = 48
	switch kind {
	case promptQuickAdd:
		in.Placeholder = "tomorrow 2pm-3pm Dentist"
	case promptGoto:
		in.Placeholder = "2025-03-10, next monday, 12/25"
	}
	in.Focus()
	return &prompt{kind: kind, input: in}
}

func (p *prompt) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *prompt) view(styles Styles, width int) string {
	title := "Quick add"
	hint := "Describe the event: date, time or range, then the title."
	if p.kind == promptGoto {
		title = "Go to date"
		hint = "Any date: 2025-03-10, 3/10, mar 10, next monday."
	}

	lines := []string{
		styles.Header.Render(title),
		styles.Help.Render(wordwrap.String(hint, max(width-4, 20))),
		"",
		p.input.View(),
	}
	if p.err != nil {
		lines = append(lines, "", styles.Error.Render(wordwrap.String(p.err.Error(), max(width-4, 20))))
	}
	return styles.Border.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
