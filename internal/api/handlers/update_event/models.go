package update_event

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/events/models"
)

// UpdateEventRequest HTTP request model, все поля опциональны
type UpdateEventRequest struct {
	Kind            *string    `json:"kind,omitempty"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	WeeklyRecurring *bool      `json:"weeklyRecurring,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateEventRequest) ToServiceRequest() *models.UpdateEventRequest {
	return &models.UpdateEventRequest{
		Kind:            r.Kind,
		StartsAt:        r.StartsAt,
		EndsAt:          r.EndsAt,
		WeeklyRecurring: r.WeeklyRecurring,
	}
}
