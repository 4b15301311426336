package domain

// Availability window
const (
	DaysPerWeek            = 7
	AvailabilityWindowDays = 7
	SlotDurationMinutes    = 30
)

// Business validation constants
const (
	MinRetentionDays = 1
	MaxRetentionDays = 3650
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02 15:04" // YYYY-MM-DD HH:MM
)

// EventKinds список допустимых типов событий
var EventKinds = []EventKind{
	KindOpening,
	KindAppointment,
}
