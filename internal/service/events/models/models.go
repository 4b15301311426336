package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

// Request модели

// CreateEventRequest запрос на создание события
type CreateEventRequest struct {
	Kind            string    `json:"kind" validate:"required,event_kind"`
	StartsAt        time.Time `json:"startsAt" validate:"required"`
	EndsAt          time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
	WeeklyRecurring bool      `json:"weeklyRecurring"`
}

// ToDomainEvent конвертирует request в domain модель
func (r *CreateEventRequest) ToDomainEvent() *domain.Event {
	event := &domain.Event{
		Kind:            domain.EventKind(r.Kind),
		StartsAt:        r.StartsAt,
		EndsAt:          r.EndsAt,
		WeeklyRecurring: r.WeeklyRecurring,
	}
	event.RefreshWeekdayKey()
	return event
}

// UpdateEventRequest запрос на частичное обновление события
// Обновляются только указанные поля
type UpdateEventRequest struct {
	Kind            *string    `json:"kind,omitempty" validate:"omitempty,event_kind"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	WeeklyRecurring *bool      `json:"weeklyRecurring,omitempty"`
}

// IsEmpty возвращает true, если ни одно поле не указано
func (r *UpdateEventRequest) IsEmpty() bool {
	return r.Kind == nil && r.StartsAt == nil && r.EndsAt == nil && r.WeeklyRecurring == nil
}

// ApplyTo применяет изменения к domain модели
func (r *UpdateEventRequest) ApplyTo(event *domain.Event) {
	if r.Kind != nil {
		event.Kind = domain.EventKind(*r.Kind)
	}
	if r.StartsAt != nil {
		event.StartsAt = *r.StartsAt
	}
	if r.EndsAt != nil {
		event.EndsAt = *r.EndsAt
	}
	if r.WeeklyRecurring != nil {
		event.WeeklyRecurring = *r.WeeklyRecurring
	}
	event.RefreshWeekdayKey()
}

// Response модели

// EventResponse ответ с данными события
type EventResponse struct {
	ID              int64      `json:"id"`
	Kind            string     `json:"kind"`
	StartsAt        time.Time  `json:"startsAt"`
	EndsAt          time.Time  `json:"endsAt"`
	WeeklyRecurring bool       `json:"weeklyRecurring"`
	DaysToWeek      int        `json:"daysToWeek"` // Дни от начала недели, понедельник = 0
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainEvent конвертирует domain модель в DTO
func FromDomainEvent(e *domain.Event) *EventResponse {
	if e == nil {
		return nil
	}

	resp := &EventResponse{
		ID:              e.ID,
		Kind:            string(e.Kind),
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		WeeklyRecurring: e.WeeklyRecurring,
		DaysToWeek:      e.WeekdayKey,
		CreatedAt:       e.CreatedAt,
	}

	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = ptr.Ptr(e.UpdatedAt)
	}

	return resp
}
