package calendar

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cwarden/weekcal/internal/kv"
	"github.com/cwarden/weekcal/internal/log"
	"github.com/google/uuid"
)

// EventsKey is the key holding the JSON-encoded event list.
const EventsKey = "calendar_events"

// EventStore owns the event list. Every other component reads and writes
// events through it and never touches the backing key directly.
//
// It is not safe for concurrent use; all calls are expected to come from the
// UI's update loop.
type EventStore struct {
	kv        kv.Store
	events    []Event
	raw       string
	observers map[int]func([]Event)
	nextObs   int

	// NewID generates identifiers for created events.
	NewID func() string
}

// NewEventStore loads the event list from store once. Malformed data is
// logged and treated as an empty list.
func NewEventStore(store kv.Store) (*EventStore, error) {
	s := &EventStore{
		kv:        store,
		observers: make(map[int]func([]Event)),
		NewID:     func() string { return uuid.New().String() },
	}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EventStore) load() (bool, error) {
	raw, ok, err := s.kv.Get(EventsKey)
	if err != nil {
		return false, fmt.Errorf("failed to load events: %w", err)
	}
	if raw == s.raw && s.events != nil {
		return false, nil
	}

	var events []Event
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &events); err != nil {
			log.Error("ignoring malformed event list", err, "key", EventsKey)
			events = nil
		}
	}
	if events == nil {
		events = []Event{}
	}
	s.events = events
	s.raw = raw
	return true, nil
}

// Reload re-reads the backing key, notifying observers if it changed since
// the last read or write.
func (s *EventStore) Reload() error {
	changed, err := s.load()
	if err != nil {
		return err
	}
	if changed {
		s.notify()
	}
	return nil
}

// List returns a copy of all events in insertion order.
func (s *EventStore) List() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// ForDate returns the events on date in insertion order.
func (s *EventStore) ForDate(date string) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// Between returns events with from <= date <= to, ordered by date and start.
// Empty bounds are open.
func (s *EventStore) Between(from, to string) []Event {
	var out []Event
	for _, e := range s.events {
		if from != "" && e.Date < from {
			continue
		}
		if to != "" && e.Date > to {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartMinutes() < out[j].StartMinutes()
	})
	return out
}

func (s *EventStore) Get(id string) (Event, bool) {
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// Create appends a new event with a fresh id. The returned error reports a
// failed write; the in-memory list has been updated either way.
func (s *EventStore) Create(f Fields) (Event, error) {
	e := Event{
		ID:        s.NewID(),
		Title:     f.Title,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
	}
	updated := make([]Event, len(s.events), len(s.events)+1)
	copy(updated, s.events)
	updated = append(updated, e)
	return e, s.commit(updated)
}

// Update replaces the fields set in p on the event with id. Unknown ids are
// a no-op.
func (s *EventStore) Update(id string, p Patch) error {
	idx := s.index(id)
	if idx < 0 {
		return nil
	}
	updated := make([]Event, len(s.events))
	copy(updated, s.events)
	updated[idx] = updated[idx].Apply(p)
	return s.commit(updated)
}

// Delete removes the event with id. Unknown ids are a no-op.
func (s *EventStore) Delete(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return nil
	}
	updated := make([]Event, 0, len(s.events)-1)
	updated = append(updated, s.events[:idx]...)
	updated = append(updated, s.events[idx+1:]...)
	return s.commit(updated)
}

func (s *EventStore) index(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// commit swaps in the new list, rewrites the whole key and notifies.
func (s *EventStore) commit(events []Event) error {
	s.events = events
	defer s.notify()

	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	s.raw = string(data)
	if err := s.kv.Set(EventsKey, s.raw); err != nil {
		log.Error("failed to persist events", err)
		return fmt.Errorf("failed to save events: %w", err)
	}
	log.Debug("events saved", "count", len(events))
	return nil
}

// Subscribe registers fn to be called with the current list after every
// change. The returned func removes it.
func (s *EventStore) Subscribe(fn func([]Event)) func() {
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *EventStore) notify() {
	if len(s.observers) == 0 {
		return
	}
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s.observers[id](s.List())
	}
}
