package drag

import (
	"testing"

	"github.com/cwarden/weekcal/internal/calendar"
)

type recordingStore struct {
	created []calendar.Fields
	updated map[string]calendar.Patch
}

func (r *recordingStore) Create(f calendar.Fields) (calendar.Event, error) {
	r.created = append(r.created, f)
	return calendar.Event{ID: "new", Title: f.Title, Date: f.Date, StartTime: f.StartTime, EndTime: f.EndTime}, nil
}

func (r *recordingStore) Update(id string, p calendar.Patch) error {
	if r.updated == nil {
		r.updated = map[string]calendar.Patch{}
	}
	r.updated[id] = p
	return nil
}

func TestSnap(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {7, 0}, {8, 15}, {22, 15}, {23, 30}, {600, 600}, {620, 615}, {-8, -15},
	}
	for _, tt := range tests {
		if got := Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClickWithoutMovementOpensForm(t *testing.T) {
	store := &recordingStore{}
	m := NewMachine(store)

	m.PointerDown(Pointer{Day: "2025-03-10", Minute: 600})
	if m.Session().Mode != Creating {
		t.Fatalf("mode = %v, want %v", m.Session().Mode, Creating)
	}
	// Movement inside the same quantum snaps back to the anchor.
	m.PointerMove(Pointer{Day: "2025-03-10", Minute: 605})

	out, err := m.PointerUp()
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != OpenForm || out.Day != "2025-03-10" {
		t.Errorf("outcome = %+v, want OpenForm on 2025-03-10", out)
	}
	if len(store.created) != 0 {
		t.Errorf("created %v on a click", store.created)
	}
	if m.Session().Active() {
		t.Error("machine not idle after PointerUp")
	}
}

func TestCreateShortDragClampsToMinimum(t *testing.T) {
	store := &recordingStore{}
	m := NewMachine(store)

	m.PointerDown(Pointer{Day: "2025-03-10", Minute: 600})
	m.PointerMove(Pointer{Day: "2025-03-10", Minute: 620})
	out, err := m.PointerUp()
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != Create || out.Start != 600 || out.End != 630 {
		t.Errorf("outcome = %+v, want create 600-630", out)
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d events, want 1", len(store.created))
	}
	got := store.created[0]
	if got.StartTime != "10:00" || got.EndTime != "10:30" || got.Date != "2025-03-10" || got.Title != "New event" {
		t.Errorf("created %+v", got)
	}
}

func TestCreateUpwardDragAcrossDays(t *testing.T) {
	s := PointerDown(Session{}, Pointer{Day: "2025-03-10", Minute: 720})
	s = PointerMove(s, Pointer{Day: "2025-03-11", Minute: 598})

	p, ok := s.Preview()
	if !ok || p.StartMinute != 600 || p.EndMinute != 720 || p.Day != "2025-03-11" {
		t.Errorf("preview = %+v, %v", p, ok)
	}

	s, out := PointerUp(s)
	if s.Active() {
		t.Error("session still active")
	}
	if out.Kind != Create || out.Day != "2025-03-11" || out.Start != 600 || out.End != 720 {
		t.Errorf("outcome = %+v", out)
	}
}

func TestCreateAtEndOfDay(t *testing.T) {
	s := PointerDown(Session{}, Pointer{Day: "d", Minute: 1430})
	s = PointerMove(s, Pointer{Day: "d", Minute: 1500})
	_, out := PointerUp(s)
	if out.Start != 1410 || out.End != 1440 {
		t.Errorf("outcome = %+v, want 1410-1440", out)
	}
}

func TestCreatePreviewStartsEmpty(t *testing.T) {
	s := PointerDown(Session{}, Pointer{Day: "d", Minute: 543})
	p, ok := s.Preview()
	if !ok || p.StartMinute != 540 || p.EndMinute != 540 {
		t.Errorf("preview = %+v", p)
	}
	if s.Moved {
		t.Error("moved set on pointer down")
	}
}

func TestMovePreservesDuration(t *testing.T) {
	store := &recordingStore{}
	m := NewMachine(store)
	event := calendar.Event{ID: "e1", Title: "Review", Date: "2025-03-10", StartTime: "13:00", EndTime: "14:00"}

	// Grabbed 20 minutes below the start.
	m.PointerDownOnEvent(Pointer{Day: "2025-03-10", Minute: 800}, event)
	if p, _ := m.Session().Preview(); p.StartMinute != 780 || p.EndMinute != 840 {
		t.Errorf("initial preview = %+v", p)
	}

	m.PointerMove(Pointer{Day: "2025-03-11", Minute: 700})
	m.PointerMove(Pointer{Day: "2025-03-12", Minute: 563})

	out, err := m.PointerUp()
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != Update || out.EventID != "e1" || out.Start != 540 || out.End != 600 || out.Day != "2025-03-12" {
		t.Errorf("outcome = %+v, want update e1 540-600 on 2025-03-12", out)
	}

	moved := event.Apply(store.updated["e1"])
	if moved.StartTime != "09:00" || moved.EndTime != "10:00" || moved.Date != "2025-03-12" || moved.Title != "Review" {
		t.Errorf("moved event = %+v", moved)
	}
}

func TestMoveClampsInsideDay(t *testing.T) {
	event := calendar.Event{ID: "e", StartTime: "22:00", EndTime: "23:30"}
	s := PointerDownOnEvent(Session{}, Pointer{Day: "d", Minute: 1320}, event)
	s = PointerMove(s, Pointer{Day: "d", Minute: 1439})
	if s.Current != 1350 {
		t.Errorf("top = %d, want 1350", s.Current)
	}
	s = PointerMove(s, Pointer{Day: "d", Minute: -200})
	if s.Current != 0 {
		t.Errorf("top = %d, want 0", s.Current)
	}
}

func TestCancelDiscardsDrag(t *testing.T) {
	tests := []struct {
		name  string
		start func(*Machine)
	}{
		{"create", func(m *Machine) {
			m.PointerDown(Pointer{Day: "d", Minute: 540})
			m.PointerMove(Pointer{Day: "d", Minute: 660})
		}},
		{"move", func(m *Machine) {
			m.PointerDownOnEvent(Pointer{Day: "d", Minute: 540}, calendar.Event{ID: "x", StartTime: "09:00", EndTime: "10:00"})
			m.PointerMove(Pointer{Day: "d", Minute: 700})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{}
			m := NewMachine(store)
			tt.start(m)
			m.Cancel()

			if m.Session().Active() {
				t.Error("still active after Cancel")
			}
			out, err := m.PointerUp()
			if err != nil || out.Kind != None {
				t.Errorf("PointerUp after cancel = %+v, %v", out, err)
			}
			if len(store.created) != 0 || len(store.updated) != 0 {
				t.Errorf("store touched: created %v, updated %v", store.created, store.updated)
			}
		})
	}
}

func TestIdleIgnoresMoveAndSecondDown(t *testing.T) {
	s := PointerMove(Session{}, Pointer{Day: "d", Minute: 300})
	if s.Active() {
		t.Error("move from idle started a drag")
	}

	s = PointerDown(Session{}, Pointer{Day: "d", Minute: 300})
	again := PointerDown(s, Pointer{Day: "e", Minute: 900})
	if again != s {
		t.Errorf("second down changed session: %+v", again)
	}
	if _, ok := (Session{}).Preview(); ok {
		t.Error("idle session has a preview")
	}
}

func TestModeString(t *testing.T) {
	if Idle.String() != "idle" || Creating.String() != "dragging-create" || Moving.String() != "dragging-move" {
		t.Error("unexpected mode names")
	}
}
