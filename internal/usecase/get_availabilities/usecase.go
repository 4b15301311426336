package get_availabilities

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// UseCase use case для расчёта доступных слотов на неделю вперёд
type UseCase struct {
	eventRepo EventRepository
	location  *time.Location
	metrics   MetricsRecorder
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
// location - канонический часовой пояс, в котором считаются даты и слоты
func NewUseCase(
	eventRepo EventRepository,
	location *time.Location,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &UseCase{
		eventRepo: eventRepo,
		location:  location,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute возвращает свободные слоты на AvailabilityWindowDays дней, начиная с req.Date
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailabilities: validation failed: %v", err)
		return nil, err
	}

	startDate := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)
	uc.logger.Info("GetAvailabilities: start_date=%s", startDate.Format(domain.DateFormat))

	// 2. Один запрос к хранилищу на всё окно: все дни видят один и тот же снимок.
	// Граница включает повторяющиеся opening, созданные сколь угодно давно
	upTo := domain.EndOfDay(startDate).AddDate(0, 0, domain.AvailabilityWindowDays)
	events, err := uc.eventRepo.FetchEventsUpTo(ctx, upTo)
	if err != nil {
		uc.logger.Error("GetAvailabilities: failed to fetch events up to %s: %v", upTo.Format(time.RFC3339), err)
		return nil, fmt.Errorf("%w: failed to fetch events: %v", ErrInternal, err)
	}

	// 3. Группируем по дню недели
	grouped := groupByWeekday(events, uc.location)

	// 4. Считаем каждый день окна
	startKey := domain.WeekdayKeyFor(startDate)
	days := make([]domain.AvailabilityDay, 0, domain.AvailabilityWindowDays)
	for dayIndex := 0; dayIndex < domain.AvailabilityWindowDays; dayIndex++ {
		currentDate := startDate.AddDate(0, 0, dayIndex)
		weekdayKey := (startKey + dayIndex) % domain.DaysPerWeek

		mask := resolveDay(currentDate, grouped[weekdayKey])
		days = append(days, domain.AvailabilityDay{
			Date:  currentDate,
			Slots: mask.Slots(),
			Mask:  mask,
		})
	}

	response := &Response{
		StartDate: startDate,
		Days:      days,
	}

	freeSlots := response.TotalSlots()
	uc.metrics.RecordAvailability(len(days), freeSlots)
	uc.logger.Info("GetAvailabilities: computed %d days, %d free slots from %d events, start_date=%s",
		len(days), freeSlots, len(events), startDate.Format(domain.DateFormat))

	return response, nil
}
