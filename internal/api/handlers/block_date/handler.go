package block_date

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата: ожидается YYYY-MM-DD, не раньше сегодняшнего дня"
	msgInvalidInput       = "некорректные данные запроса"
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

// Handle POST /api/v1/availability/blocked-dates
// Повторная блокировка той же даты идемпотентна.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BlockDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := types.ParseDate(req.Date)
	if err != nil {
		h.logger.Warn("POST /availability/blocked-dates - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Block(r.Context(), date, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, blackouts.ErrInvalidDate):
			h.logger.Warn("POST /availability/blocked-dates - Rejected date %s: %v", date, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
		case errors.Is(err, blackouts.ErrInvalidInput):
			h.logger.Warn("POST /availability/blocked-dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /availability/blocked-dates - Failed to block %s: %v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability/blocked-dates - Date blocked: %s", date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
