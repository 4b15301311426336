package export_events

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

type Handler struct {
	service EventService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/events.ics
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.ExportCalendar(r.Context(), h.now().UTC())
	if err != nil {
		h.logger.Error("GET /events.ics - Failed to export events: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /events.ics - Calendar exported successfully: bytes=%d", len(body))
	handlers.RespondCalendar(w, "events.ics", body)
}
