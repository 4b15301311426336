package update_event

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/events/models"
)

type EventService interface {
	Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.EventResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
