package get_availabilities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/timemask"
)

func TestResolveDay_NoOpeningShortCircuits(t *testing.T) {
	date := parseDate(t, "2014-08-11")
	events := []*domain.Event{
		appointment(t, "2014-08-11 10:30", "2014-08-11 11:30"),
	}

	assert.Equal(t, timemask.Empty, resolveDay(date, events))
	assert.Equal(t, timemask.Empty, resolveDay(date, nil))
}

func TestResolveDay_NonRecurringOpeningOnOtherDate(t *testing.T) {
	date := parseDate(t, "2014-08-11")
	events := []*domain.Event{
		opening(t, "2014-08-04 09:30", "2014-08-04 12:30", false),
	}

	assert.Equal(t, timemask.Empty, resolveDay(date, events))
}

func TestResolveDay_OpeningsMerge(t *testing.T) {
	date := parseDate(t, "2014-09-08")
	events := []*domain.Event{
		opening(t, "2014-09-08 14:00", "2014-09-08 16:30", false),
		opening(t, "2014-09-01 09:30", "2014-09-01 12:30", true),
		opening(t, "2014-09-08 10:00", "2014-09-08 11:00", false),
	}

	mask := resolveDay(date, events)

	assert.Equal(t, []string{
		"9:30", "10:00", "10:30", "11:00", "11:30", "12:00",
		"14:00", "14:30", "15:00", "15:30", "16:00",
	}, mask.Slots())
}

func TestResolveDay_AppointmentMasking(t *testing.T) {
	date := parseDate(t, "2014-08-11")
	recurring := opening(t, "2014-08-04 09:30", "2014-08-04 12:30", true)

	tests := []struct {
		name         string
		appointments []*domain.Event
		want         []string
	}{
		{
			name:         "no appointments",
			appointments: nil,
			want:         []string{"9:30", "10:00", "10:30", "11:00", "11:30", "12:00"},
		},
		{
			name: "appointment inside opening",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 10:30", "2014-08-11 11:30"),
			},
			want: []string{"9:30", "10:00", "11:30", "12:00"},
		},
		{
			name: "appointment overlaps opening start",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 08:30", "2014-08-11 10:00"),
			},
			want: []string{"10:00", "10:30", "11:00", "11:30", "12:00"},
		},
		{
			name: "appointment overlaps opening end",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 12:00", "2014-08-11 13:30"),
			},
			want: []string{"9:30", "10:00", "10:30", "11:00", "11:30"},
		},
		{
			name: "appointment before opening",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 08:30", "2014-08-11 09:00"),
			},
			want: []string{"9:30", "10:00", "10:30", "11:00", "11:30", "12:00"},
		},
		{
			name: "appointment after opening",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 14:30", "2014-08-11 15:00"),
			},
			want: []string{"9:30", "10:00", "10:30", "11:00", "11:30", "12:00"},
		},
		{
			name: "appointment on another date",
			appointments: []*domain.Event{
				appointment(t, "2014-08-18 09:30", "2014-08-18 12:30"),
			},
			want: []string{"9:30", "10:00", "10:30", "11:00", "11:30", "12:00"},
		},
		{
			name: "opening fully booked",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 09:30", "2014-08-11 10:30"),
				appointment(t, "2014-08-11 10:30", "2014-08-11 11:30"),
				appointment(t, "2014-08-11 11:30", "2014-08-11 12:30"),
			},
			want: []string{},
		},
		{
			name: "appointment wider than opening",
			appointments: []*domain.Event{
				appointment(t, "2014-08-11 08:30", "2014-08-11 13:30"),
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := append([]*domain.Event{recurring}, tt.appointments...)

			assert.Equal(t, tt.want, resolveDay(date, events).Slots())
		})
	}
}

func TestResolveDay_NeverExceedsOpening(t *testing.T) {
	date := parseDate(t, "2014-08-11")
	open := opening(t, "2014-08-11 09:30", "2014-08-11 12:30", false)
	openingMask := timemask.Encode(open.StartsAt, open.EndsAt)

	day := parseDateTime(t, "2014-08-11 00:00")
	for start := 0; start < timemask.SlotsPerDay; start++ {
		for end := start + 1; end <= timemask.SlotsPerDay; end++ {
			booked := &domain.Event{
				Kind:     domain.KindAppointment,
				StartsAt: day.Add(time.Duration(start) * timemask.SlotDuration),
				EndsAt:   day.Add(time.Duration(end) * timemask.SlotDuration),
			}

			mask := resolveDay(date, []*domain.Event{open, booked})

			assert.Equal(t, mask, mask&openingMask)
			assert.Equal(t, timemask.Empty, mask&timemask.Encode(booked.StartsAt, booked.EndsAt))
		}
	}
}

func TestGroupByWeekday(t *testing.T) {
	events := []*domain.Event{
		opening(t, "2014-08-04 09:30", "2014-08-04 12:30", true),
		appointment(t, "2014-08-11 10:30", "2014-08-11 11:30"),
		opening(t, "2014-08-12 09:30", "2014-08-12 12:30", true),
	}
	for _, event := range events {
		event.RefreshWeekdayKey()
	}

	grouped := groupByWeekday(events, time.UTC)

	assert.Len(t, grouped[0], 2)
	assert.Len(t, grouped[1], 1)
	assert.Empty(t, grouped[2])
}

func TestGroupByWeekday_UsesStoredKey(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	// Сохранено при timezone = Europe/Moscow: понедельник, ключ 0
	event := &domain.Event{
		Kind:     domain.KindOpening,
		StartsAt: time.Date(2014, 8, 4, 1, 0, 0, 0, msk),
		EndsAt:   time.Date(2014, 8, 4, 2, 0, 0, 0, msk),
	}
	event.RefreshWeekdayKey()

	// В UTC это воскресенье, но ключ из базы не пересчитывается
	grouped := groupByWeekday([]*domain.Event{event}, time.UTC)

	assert.Len(t, grouped[0], 1)
	assert.Empty(t, grouped[6])
	assert.Equal(t, time.Sunday, grouped[0][0].StartsAt.Weekday())
}
