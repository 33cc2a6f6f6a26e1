package get_my_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
)

const (
	msgUnauthorized = "требуется авторизация"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		h.logger.Warn("GET /me/appointments - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.ListByAccount(r.Context(), accountID)
	if err != nil {
		h.logger.Error("GET /me/appointments - Failed to list appointments: account=%s, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
