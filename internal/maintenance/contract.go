package maintenance

import (
	"context"
	"time"
)

// EventPurger удаляет устаревшие события (*events.Service)
type EventPurger interface {
	PurgeExpired(ctx context.Context, now time.Time, retentionDays int) (int64, error)
}

// MetricsRecorder учёт удалённых событий
type MetricsRecorder interface {
	RecordPurgedEvents(count int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type noopMetrics struct{}

func (noopMetrics) RecordPurgedEvents(int64) {}
