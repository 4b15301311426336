package create_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/events"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные события"
	msgInvalidTimeRange   = "интервал события должен лежать в одних сутках и быть кратен 30 минутам"
)

type Handler struct {
	service EventService
	logger  Logger
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("POST /events - Invalid data: kind=%s, error=%v", req.Kind, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, events.ErrInvalidTimeRange):
			h.logger.Warn("POST /events - Invalid time range: kind=%s, error=%v", req.Kind, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("POST /events - Failed to create event: kind=%s, error=%v", req.Kind, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /events - Event created successfully: event_id=%d, kind=%s", result.ID, result.Kind)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
