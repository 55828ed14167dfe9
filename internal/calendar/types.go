package calendar

// Event is a single timed entry on one calendar day. Date is YYYY-MM-DD and
// the times are 24h HH:mm. Events are values; an update replaces the record
// with the same ID.
type Event struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Date      string `json:"date" yaml:"date"`
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
}

// Fields is everything about an event except its identity.
type Fields struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title     *string
	Date      *string
	StartTime *string
	EndTime   *string
}

func (e Event) Fields() Fields {
	return Fields{
		Title:     e.Title,
		Date:      e.Date,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// Apply returns a copy of e with the non-nil fields of p replaced.
func (e Event) Apply(p Patch) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	return e
}

// StartMinutes is the start as minutes since midnight, 0 if malformed.
func (e Event) StartMinutes() int {
	return MinutesOf(e.StartTime)
}

// EndMinutes is the end as minutes since midnight, 0 if malformed.
func (e Event) EndMinutes() int {
	return MinutesOf(e.EndTime)
}

// Duration in minutes. May be zero or negative for records that were stored
// without validation.
func (e Event) Duration() int {
	return e.EndMinutes() - e.StartMinutes()
}

// FullPatch replaces every field.
func FullPatch(f Fields) Patch {
	return Patch{
		Title:     &f.Title,
		Date:      &f.Date,
		StartTime: &f.StartTime,
		EndTime:   &f.EndTime,
	}
}

// TimePatch moves an event to a new day and time range.
func TimePatch(date string, start, end int) Patch {
	s := FormatClock(start)
	e := FormatClock(end)
	return Patch{Date: &date, StartTime: &s, EndTime: &e}
}
