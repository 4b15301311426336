package export_availabilities

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/calendar"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailabilities "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availabilities"
)

const (
	msgMissingDate = "дата обязательна"
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailabilitiesUseCase
	logger  Logger
	now     func() time.Time
}

func NewHandler(useCase GetAvailabilitiesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/availabilities.ics
// Query params: date (required, YYYY-MM-DD)
// Свободное время окна в формате iCalendar, подряд идущие слоты объединены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availabilities.ics - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /availabilities.ics - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailabilities.Request{Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getAvailabilities.ErrInvalidInput):
			h.logger.Warn("GET /availabilities.ics - Invalid input: date=%s, error=%v", dateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /availabilities.ics - Failed to get availabilities: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	body := calendar.Availability(result.Days, h.now().UTC())

	h.logger.Info("GET /availabilities.ics - Calendar exported: date=%s, slots=%d", dateStr, result.TotalSlots())
	handlers.RespondCalendar(w, "availabilities-"+dateStr+".ics", body)
}
