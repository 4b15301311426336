package get_availabilities

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/timemask"
)

// resolveDay вычисляет итоговую маску свободных слотов на дату date
//
// events - события одного дня недели (корзина по WeekdayKey), уже приведённые
// к часовому поясу сервиса. Повторяющиеся opening применяются к любой дате
// с тем же днём недели, appointment - только к своей дате.
func resolveDay(date time.Time, events []*domain.Event) timemask.Mask {
	// 1. Собираем все opening, действующие на эту дату
	openingMask := timemask.Empty
	hasOpening := false
	for _, event := range events {
		if !event.IsOpening() {
			continue
		}
		if !event.WeeklyRecurring && !event.OccursOn(date) {
			continue
		}
		hasOpening = true
		openingMask |= timemask.Encode(event.StartsAt, event.EndsAt)
	}

	// Без opening дальнейший расчёт не нужен: appointment ничего не могут отнять
	if !hasOpening {
		return timemask.Empty
	}

	// 2. Собираем appointment этой даты (appointment никогда не повторяются)
	appointmentMask := timemask.Empty
	for _, event := range events {
		if !event.IsAppointment() || !event.OccursOn(date) {
			continue
		}
		appointmentMask |= timemask.Encode(event.StartsAt, event.EndsAt)
	}

	// 3. AND отбрасывает биты appointment вне opening,
	// XOR снимает с opening ровно занятые слоты
	return (openingMask & appointmentMask) ^ openingMask
}

// groupByWeekday раскладывает события по ключу дня недели
func groupByWeekday(events []*domain.Event, loc *time.Location) map[int][]*domain.Event {
	grouped := make(map[int][]*domain.Event, domain.DaysPerWeek)
	for _, event := range events {
		converted := event.In(loc)
		grouped[converted.WeekdayKey] = append(grouped[converted.WeekdayKey], converted)
	}
	return grouped
}
