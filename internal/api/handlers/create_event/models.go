package create_event

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/events/models"
)

// CreateEventRequest HTTP request model
type CreateEventRequest struct {
	Kind            string    `json:"kind"`     // "opening" | "appointment"
	StartsAt        time.Time `json:"startsAt"` // RFC 3339
	EndsAt          time.Time `json:"endsAt"`
	WeeklyRecurring bool      `json:"weeklyRecurring"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateEventRequest) ToServiceRequest() *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Kind:            r.Kind,
		StartsAt:        r.StartsAt,
		EndsAt:          r.EndsAt,
		WeeklyRecurring: r.WeeklyRecurring,
	}
}
