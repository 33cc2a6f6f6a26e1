package list_blocked_dates

import (
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
)

type Handler struct {
	service BlackoutService
	logger  Logger
}

func NewHandler(service BlackoutService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/blocked-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.logger.Error("GET /availability/blocked-dates - Failed to list blocked dates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
