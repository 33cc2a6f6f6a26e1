package unblock_date

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotBlocked  = "дата не заблокирована"
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

// Handle DELETE /api/v1/availability/blocked-dates/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := types.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("DELETE /availability/blocked-dates/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.Unblock(r.Context(), date); err != nil {
		switch {
		case errors.Is(err, blackouts.ErrNotBlocked):
			h.logger.Warn("DELETE /availability/blocked-dates/{date} - Date not blocked: %s", date)
			handlers.RespondNotFound(w, msgNotBlocked)
		default:
			h.logger.Error("DELETE /availability/blocked-dates/{date} - Failed to unblock %s: %v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability/blocked-dates/{date} - Date unblocked: %s", date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
