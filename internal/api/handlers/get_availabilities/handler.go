package get_availabilities

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAvailabilities "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availabilities"
)

const (
	msgMissingDate = "дата обязательна"
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailabilitiesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilitiesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availabilities
// Query params: date (required, YYYY-MM-DD) - первый день семидневного окна
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availabilities - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr)
	if err != nil {
		h.logger.Warn("GET /availabilities - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailabilities.ErrInvalidInput):
			h.logger.Warn("GET /availabilities - Invalid input: date=%s, error=%v", dateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /availabilities - Failed to get availabilities: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availabilities - Availabilities retrieved successfully: date=%s, days=%d, slots=%d",
		dateStr, len(result.Days), result.TotalSlots())
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
