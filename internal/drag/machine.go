package drag

import (
	"fmt"

	"github.com/cwarden/weekcal/internal/calendar"
)

// Committer is the part of the event store a finished drag writes to.
type Committer interface {
	Create(f calendar.Fields) (calendar.Event, error)
	Update(id string, p calendar.Patch) error
}

// Machine owns a Session and applies released drags to a Committer.
type Machine struct {
	store   Committer
	session Session

	// NewTitle is the title given to events created by dragging.
	NewTitle string
}

func NewMachine(store Committer) *Machine {
	return &Machine{store: store, NewTitle: "New event"}
}

// Session returns a snapshot of the current state for rendering.
func (m *Machine) Session() Session {
	return m.session
}

func (m *Machine) PointerDown(p Pointer) {
	m.session = PointerDown(m.session, p)
}

func (m *Machine) PointerDownOnEvent(p Pointer, e calendar.Event) {
	m.session = PointerDownOnEvent(m.session, p, e)
}

func (m *Machine) PointerMove(p Pointer) {
	m.session = PointerMove(m.session, p)
}

func (m *Machine) Cancel() {
	m.session = Cancel(m.session)
}

// PointerUp finishes the drag. Create and Update outcomes have already been
// written to the store when it returns; OpenForm is left to the caller.
func (m *Machine) PointerUp() (Outcome, error) {
	var out Outcome
	m.session, out = PointerUp(m.session)

	switch out.Kind {
	case Create:
		_, err := m.store.Create(calendar.Fields{
			Title:     m.NewTitle,
			Date:      out.Day,
			StartTime: calendar.FormatClock(out.Start),
			EndTime:   calendar.FormatClock(out.End),
		})
		if err != nil {
			return out, fmt.Errorf("failed to create event: %w", err)
		}
	case Update:
		if err := m.store.Update(out.EventID, calendar.TimePatch(out.Day, out.Start, out.End)); err != nil {
			return out, fmt.Errorf("failed to move event: %w", err)
		}
	}
	return out, nil
}
