package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AvailabilityService/internal/calendar"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	eventRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/event"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/events/models"
)

// Service сервис для работы с событиями (opening и appointment)
type Service struct {
	eventRepo EventRepository
	txManager TransactionManager
	location  *time.Location
	validate  *validator.Validate
	logger    Logger
}

// NewService создает новый экземпляр сервиса событий
// location - канонический часовой пояс, в котором проверяется сетка слотов
func NewService(
	eventRepo EventRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		eventRepo: eventRepo,
		txManager: txManager,
		location:  location,
		validate:  newValidator(),
		logger:    logger,
	}
}

// Create создает новое событие
func (s *Service) Create(ctx context.Context, req *models.CreateEventRequest) (*models.EventResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	s.logger.Info("Create: creating %s event %s - %s, weekly=%t",
		req.Kind, req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339), req.WeeklyRecurring)

	// 1. Валидируем входные данные
	if err := s.validateStruct(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	event := s.normalize(req.ToDomainEvent())
	if err := s.validateEvent(event); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем
	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created event id=%d", created.ID)
	return models.FromDomainEvent(created), nil
}

// GetByID получает событие по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.EventResponse, error) {
	s.logger.Info("GetByID: fetching event id=%d", id)

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("GetByID: event id=%d not found", id)
			return nil, ErrEventNotFound
		}
		s.logger.Error("GetByID: repository error for event id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched event id=%d", id)
	return models.FromDomainEvent(event), nil
}

// Update частично обновляет событие
// Чтение и запись выполняются в одной транзакции, строка блокируется до коммита
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.EventResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	s.logger.Info("Update: updating event id=%d", id)

	if err := s.validateStruct(req); err != nil {
		s.logger.Warn("Update: validation failed for event id=%d: %v", id, err)
		return nil, err
	}

	var updated *domain.Event
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Получаем существующее событие
		event, err := s.eventRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("%w: Update - get event: %v", ErrInternal, err)
		}

		// 2. Применяем изменения и проверяем результат целиком
		req.ApplyTo(event)
		event = s.normalize(event)
		if err := s.validateEvent(event); err != nil {
			return err
		}

		// 3. Сохраняем
		if err := s.eventRepo.Update(ctx, event); err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = event
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			s.logger.Warn("Update: event id=%d not found", id)
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTimeRange):
			s.logger.Warn("Update: validation failed for event id=%d: %v", id, err)
		default:
			s.logger.Error("Update: failed to update event id=%d: %v", id, err)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: Update - transaction error: %v", ErrInternal, err)
			}
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated event id=%d", id)
	return models.FromDomainEvent(updated), nil
}

// Delete удаляет событие
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting event id=%d", id)

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("Delete: event id=%d not found", id)
			return ErrEventNotFound
		}
		s.logger.Error("Delete: repository error for event id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted event id=%d", id)
	return nil
}

// ExportCalendar возвращает все события в формате iCalendar
// Повторяющиеся opening выгружаются с RRULE:FREQ=WEEKLY
func (s *Service) ExportCalendar(ctx context.Context, now time.Time) (string, error) {
	s.logger.Info("ExportCalendar: exporting events")

	var events []*domain.Event
	err := s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		events, err = s.eventRepo.ListAll(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("ExportCalendar: repository error: %v", err)
		return "", fmt.Errorf("%w: ExportCalendar - repository error: %v", ErrInternal, err)
	}

	for i, event := range events {
		events[i] = event.In(s.location)
	}

	s.logger.Info("ExportCalendar: exported %d events", len(events))
	return calendar.Events(events, now), nil
}

// PurgeExpired удаляет неповторяющиеся события, закончившиеся раньше,
// чем retentionDays суток назад (считая от полуночи now в каноническом поясе)
func (s *Service) PurgeExpired(ctx context.Context, now time.Time, retentionDays int) (int64, error) {
	if retentionDays < domain.MinRetentionDays || retentionDays > domain.MaxRetentionDays {
		return 0, fmt.Errorf("%w: retention days must be between %d and %d",
			ErrInvalidInput, domain.MinRetentionDays, domain.MaxRetentionDays)
	}

	before := domain.DateOnly(now.In(s.location)).AddDate(0, 0, -retentionDays)
	s.logger.Info("PurgeExpired: deleting events ended before %s", before.Format(time.RFC3339))

	deleted, err := s.eventRepo.DeleteExpired(ctx, before)
	if err != nil {
		s.logger.Error("PurgeExpired: repository error: %v", err)
		return 0, fmt.Errorf("%w: PurgeExpired - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("PurgeExpired: deleted %d events", deleted)
	return deleted, nil
}

// normalize переводит время события в канонический пояс и пересчитывает ключ дня недели,
// чтобы сохранённый days_to_week совпадал с днём, по которому считается доступность
func (s *Service) normalize(event *domain.Event) *domain.Event {
	normalized := event.In(s.location)
	normalized.RefreshWeekdayKey()
	return normalized
}
