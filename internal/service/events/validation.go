package events

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("event_kind", func(fl validator.FieldLevel) bool {
		return domain.EventKind(fl.Field().String()).IsValid()
	})
	return validate
}

// validateStruct проверяет теги validate у request моделей
func (s *Service) validateStruct(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// validateEvent проверяет итоговое событие в каноническом часовом поясе:
// вид события, конец позже начала, обе границы на сетке слотов, одни сутки
// (конец ровно в полночь следующих суток допустим)
func (s *Service) validateEvent(event *domain.Event) error {
	if !event.Kind.IsValid() {
		return fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, event.Kind)
	}

	startsAt := event.StartsAt.In(s.location)
	endsAt := event.EndsAt.In(s.location)

	if !endsAt.After(startsAt) {
		return fmt.Errorf("%w: endsAt must be after startsAt", ErrInvalidTimeRange)
	}

	if !onSlotGrid(startsAt) || !onSlotGrid(endsAt) {
		return fmt.Errorf("%w: boundaries must be multiples of %d minutes",
			ErrInvalidTimeRange, domain.SlotDurationMinutes)
	}

	endsAtMidnight := endsAt.Equal(domain.DateOnly(startsAt).AddDate(0, 0, 1))
	if !domain.IsSameDate(startsAt, endsAt) && !endsAtMidnight {
		return fmt.Errorf("%w: event must not span several days", ErrInvalidTimeRange)
	}

	return nil
}

func onSlotGrid(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0 && t.Minute()%domain.SlotDurationMinutes == 0
}
