package export_events

import (
	"context"
	"time"
)

type EventService interface {
	ExportCalendar(ctx context.Context, now time.Time) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
