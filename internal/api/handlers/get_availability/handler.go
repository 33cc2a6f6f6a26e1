package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const (
	msgMissingRange = "параметры start и end обязательны"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange = "некорректный диапазон дат"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/summary?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startStr, endStr := query.Get("start"), query.Get("end")
	if startStr == "" || endStr == "" {
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	start, err := types.ParseDate(startStr)
	if err != nil {
		h.logger.Warn("GET /availability/summary - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	end, err := types.ParseDate(endStr)
	if err != nil {
		h.logger.Warn("GET /availability/summary - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	days, err := h.service.Summarize(r.Context(), start, end)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidRange):
			h.logger.Warn("GET /availability/summary - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /availability/summary - Failed to summarize %s..%s: %v", start, end, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainDays(days))
}
