package get_availabilities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type fakeEventRepository struct {
	events []*domain.Event
	calls  int
	upTo   time.Time
	err    error
}

func (r *fakeEventRepository) FetchEventsUpTo(_ context.Context, upTo time.Time) ([]*domain.Event, error) {
	r.calls++
	r.upTo = upTo
	if r.err != nil {
		return nil, r.err
	}

	result := make([]*domain.Event, 0, len(r.events))
	for _, event := range r.events {
		if !event.StartsAt.After(upTo) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (r *fakeEventRepository) add(event *domain.Event) *domain.Event {
	event.RefreshWeekdayKey()
	r.events = append(r.events, event)
	return event
}

type fakeMetrics struct {
	days      int
	freeSlots int
}

func (m *fakeMetrics) RecordAvailability(days, freeSlots int) {
	m.days = days
	m.freeSlots = freeSlots
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var errStoreDown = errors.New("connection refused")

func parseDateTime(t testing.TB, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateTimeFormat, value)
	require.NoError(t, err)
	return parsed
}

func parseDate(t testing.TB, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateFormat, value)
	require.NoError(t, err)
	return parsed
}

func opening(t testing.TB, startsAt, endsAt string, weekly bool) *domain.Event {
	return &domain.Event{
		Kind:            domain.KindOpening,
		StartsAt:        parseDateTime(t, startsAt),
		EndsAt:          parseDateTime(t, endsAt),
		WeeklyRecurring: weekly,
	}
}

func appointment(t testing.TB, startsAt, endsAt string) *domain.Event {
	return &domain.Event{
		Kind:     domain.KindAppointment,
		StartsAt: parseDateTime(t, startsAt),
		EndsAt:   parseDateTime(t, endsAt),
	}
}
