// Package drag holds the pointer state machine behind click-drag creation and
// drag-to-move of events. Transitions are pure functions over Session; only
// Machine talks to the event store, and only when a drag is released.
package drag

import (
	"github.com/cwarden/weekcal/internal/calendar"
)

const (
	// Quantum is the grid snap in minutes.
	Quantum = 15
	// MinCreateMinutes is the shortest event a drag can create.
	MinCreateMinutes = 30
)

type Mode int

const (
	Idle Mode = iota
	Creating
	Moving
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "dragging-create"
	case Moving:
		return "dragging-move"
	default:
		return "idle"
	}
}

// Pointer is a position on the week grid: a day column and a vertical
// position in minutes since midnight.
type Pointer struct {
	Day    string
	Minute int
}

// Session is the transient drag state. The zero value is idle.
type Session struct {
	Mode   Mode
	Day    string
	Anchor int
	// Current is the snapped pointer minute while creating and the snapped
	// preview top while moving.
	Current int
	Moved   bool

	EventID  string
	Duration int
	// Offset is how far below the event's start the pointer grabbed it.
	Offset int
}

// Preview is the rectangle to draw for an active drag, in minutes.
type Preview struct {
	Day         string
	StartMinute int
	EndMinute   int
}

// Snap rounds minutes to the nearest grid quantum.
func Snap(minutes int) int {
	if minutes < 0 {
		return -Snap(-minutes)
	}
	return (minutes + Quantum/2) / Quantum * Quantum
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampMinute(m int) int {
	return clamp(m, 0, calendar.MinutesPerDay)
}

// PointerDown starts a create drag on empty grid space. A down while a drag
// is already active is ignored.
func PointerDown(s Session, p Pointer) Session {
	if s.Mode != Idle {
		return s
	}
	anchor := clampMinute(Snap(p.Minute))
	return Session{
		Mode:    Creating,
		Day:     p.Day,
		Anchor:  anchor,
		Current: anchor,
	}
}

// PointerDownOnEvent starts a move drag of e, grabbed at p.
func PointerDownOnEvent(s Session, p Pointer, e calendar.Event) Session {
	if s.Mode != Idle {
		return s
	}
	start := e.StartMinutes()
	return Session{
		Mode:     Moving,
		Day:      p.Day,
		Anchor:   start,
		Current:  start,
		EventID:  e.ID,
		Duration: e.Duration(),
		Offset:   p.Minute - start,
	}
}

// PointerMove tracks the pointer during a drag. It is a no-op when idle.
func PointerMove(s Session, p Pointer) Session {
	switch s.Mode {
	case Creating:
		cur := clampMinute(Snap(p.Minute))
		s.Current = cur
		if p.Day != "" {
			s.Day = p.Day
		}
		if cur != s.Anchor {
			s.Moved = true
		}
	case Moving:
		top := clamp(Snap(p.Minute-s.Offset), 0, calendar.MinutesPerDay-max(s.Duration, 0))
		if top != s.Current || (p.Day != "" && p.Day != s.Day) {
			s.Moved = true
		}
		s.Current = top
		if p.Day != "" {
			s.Day = p.Day
		}
	}
	return s
}

// Cancel abandons any drag without committing.
func Cancel(Session) Session {
	return Session{}
}

// Active reports whether a drag is in progress.
func (s Session) Active() bool {
	return s.Mode != Idle
}

// Preview returns the live rectangle for rendering. ok is false when idle.
func (s Session) Preview() (Preview, bool) {
	switch s.Mode {
	case Creating:
		lo, hi := s.Anchor, s.Current
		if hi < lo {
			lo, hi = hi, lo
		}
		return Preview{Day: s.Day, StartMinute: lo, EndMinute: hi}, true
	case Moving:
		return Preview{Day: s.Day, StartMinute: s.Current, EndMinute: s.Current + s.Duration}, true
	}
	return Preview{}, false
}

type OutcomeKind int

const (
	// Nothing happened; the machine was idle.
	None OutcomeKind = iota
	// OpenForm means a click without movement: show the create form for Day.
	OpenForm
	Create
	Update
)

// Outcome is what releasing the pointer asks the caller to do.
type Outcome struct {
	Kind    OutcomeKind
	Day     string
	Start   int
	End     int
	EventID string
}

// PointerUp ends the drag and returns the resulting action. The session is
// always idle afterwards.
func PointerUp(s Session) (Session, Outcome) {
	switch s.Mode {
	case Creating:
		if !s.Moved {
			return Session{}, Outcome{Kind: OpenForm, Day: s.Day}
		}
		start, end := s.Anchor, s.Current
		if end < start {
			start, end = end, start
		}
		end = max(end, start+MinCreateMinutes)
		if end > calendar.MinutesPerDay {
			end = calendar.MinutesPerDay
			start = min(start, end-MinCreateMinutes)
		}
		return Session{}, Outcome{Kind: Create, Day: s.Day, Start: start, End: end}

	case Moving:
		return Session{}, Outcome{
			Kind:    Update,
			Day:     s.Day,
			Start:   s.Current,
			End:     s.Current + s.Duration,
			EventID: s.EventID,
		}
	}
	return Session{}, Outcome{}
}
