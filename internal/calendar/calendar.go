// Package calendar собирает iCalendar (RFC 5545) представления событий и свободных слотов
package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/timemask"
)

const (
	productID = "-//SMC//AvailabilityService//RU"
	uidDomain = "availability.smc"

	summaryOpening     = "Opening"
	summaryAppointment = "Appointment"
	summaryFreeSlot    = "Free"
)

// Ключ дня недели (понедельник = 0) -> день недели RRULE
var rruleWeekdays = [domain.DaysPerWeek]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// WeeklyRule возвращает тело RRULE для события, повторяющегося каждую неделю в день startsAt
// День недели берётся в зоне startsAt, она должна совпадать с зоной DTSTART
// Например, для понедельника: FREQ=WEEKLY;BYDAY=MO
func WeeklyRule(startsAt time.Time) string {
	option := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[domain.WeekdayKeyFor(startsAt)]},
	}
	return option.RRuleString()
}

// Events собирает календарь из сохранённых событий
// Повторяющиеся opening получают RRULE без даты окончания
func Events(events []*domain.Event, stamp time.Time) string {
	cal := newCalendar()

	for _, event := range events {
		vevent := cal.AddEvent(fmt.Sprintf("event-%d@%s", event.ID, uidDomain))
		vevent.SetDtStampTime(stamp)
		// SetStartAt/SetEndAt пишут время в UTC
		startsAt := event.StartsAt.UTC()
		vevent.SetStartAt(startsAt)
		vevent.SetEndAt(event.EndsAt.UTC())
		if !event.CreatedAt.IsZero() {
			vevent.SetCreatedTime(event.CreatedAt)
		}
		if !event.UpdatedAt.IsZero() {
			vevent.SetModifiedAt(event.UpdatedAt)
		}

		if event.IsOpening() {
			vevent.SetSummary(summaryOpening)
		} else {
			vevent.SetSummary(summaryAppointment)
		}

		if event.IsRecurringOpening() {
			vevent.SetProperty(ical.ComponentPropertyRrule, WeeklyRule(startsAt))
		}
	}

	return cal.Serialize()
}

// Availability собирает календарь свободного времени
// Подряд идущие свободные слоты объединяются в один VEVENT
func Availability(days []domain.AvailabilityDay, stamp time.Time) string {
	cal := newCalendar()

	for _, day := range days {
		for _, run := range runsOf(day.Mask) {
			startsAt := timemask.SlotStart(day.Date, run.first)
			endsAt := startsAt.Add(time.Duration(run.count) * timemask.SlotDuration)

			vevent := cal.AddEvent(fmt.Sprintf("free-%s-%s@%s",
				day.Date.Format("20060102"), startsAt.Format("1504"), uidDomain))
			vevent.SetDtStampTime(stamp)
			vevent.SetStartAt(startsAt)
			vevent.SetEndAt(endsAt)
			vevent.SetSummary(summaryFreeSlot)
		}
	}

	return cal.Serialize()
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	return cal
}

// slotRun непрерывная последовательность свободных слотов
type slotRun struct {
	first int
	count int
}

func runsOf(mask timemask.Mask) []slotRun {
	runs := make([]slotRun, 0)
	for _, index := range mask.Indices() {
		last := len(runs) - 1
		if last >= 0 && runs[last].first+runs[last].count == index {
			runs[last].count++
			continue
		}
		runs = append(runs, slotRun{first: index, count: 1})
	}
	return runs
}
