package domain

import "time"

// EventKind represents the kind of a calendar event
type EventKind string

const (
	KindOpening     EventKind = "opening"
	KindAppointment EventKind = "appointment"
)

// IsValid returns true if the kind is one of the known kinds
func (k EventKind) IsValid() bool {
	return k == KindOpening || k == KindAppointment
}

// Event represents an opening (availability window) or an appointment (booking)
type Event struct {
	ID              int64
	Kind            EventKind
	StartsAt        time.Time
	EndsAt          time.Time
	WeeklyRecurring bool // Имеет смысл только для opening: повторяется каждую неделю без даты окончания
	WeekdayKey      int  // Дни от начала недели (понедельник = 0), пересчитывается при каждом сохранении

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpening returns true if the event declares availability
func (e *Event) IsOpening() bool {
	return e.Kind == KindOpening
}

// IsAppointment returns true if the event is a booking
func (e *Event) IsAppointment() bool {
	return e.Kind == KindAppointment
}

// IsRecurringOpening returns true if the event is an opening repeated every week
func (e *Event) IsRecurringOpening() bool {
	return e.IsOpening() && e.WeeklyRecurring
}

// OccursOn returns true if the event starts on the given calendar date
func (e *Event) OccursOn(date time.Time) bool {
	return IsSameDate(e.StartsAt, date)
}

// RefreshWeekdayKey recomputes the grouping key from StartsAt
// Must be called every time StartsAt changes
func (e *Event) RefreshWeekdayKey() {
	e.WeekdayKey = WeekdayKeyFor(e.StartsAt)
}

// In returns a copy of the event with timestamps converted to loc
func (e *Event) In(loc *time.Location) *Event {
	converted := *e
	converted.StartsAt = e.StartsAt.In(loc)
	converted.EndsAt = e.EndsAt.In(loc)
	return &converted
}

// WeekdayKeyFor returns the number of days since the start of the week (Monday = 0, Sunday = 6)
func WeekdayKeyFor(t time.Time) int {
	return (int(t.Weekday()) + DaysPerWeek - 1) % DaysPerWeek
}

// IsSameDate returns true if both timestamps fall on the same calendar date
func IsSameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly truncates t to the midnight of its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar date
func EndOfDay(t time.Time) time.Time {
	return DateOnly(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
