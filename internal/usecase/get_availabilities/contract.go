package get_availabilities

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// EventRepository интерфейс хранилища событий
type EventRepository interface {
	// FetchEventsUpTo возвращает все события (opening и appointment) с starts_at <= upTo
	FetchEventsUpTo(ctx context.Context, upTo time.Time) ([]*domain.Event, error)
}

// MetricsRecorder интерфейс для учёта рассчитанной доступности
type MetricsRecorder interface {
	RecordAvailability(days, freeSlots int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type noopMetrics struct{}

func (noopMetrics) RecordAvailability(int, int) {}
