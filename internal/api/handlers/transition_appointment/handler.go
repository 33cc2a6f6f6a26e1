package transition_appointment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments"
)

const (
	msgMissingAppointmentID = "отсутствует ID записи"
	msgUnknownAction        = "неизвестное действие"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgInvalidTransition    = "переход недопустим для текущего статуса записи"
	msgConcurrentUpdate     = "запись одновременно изменена, повторите запрос"
	msgInvalidInput         = "некорректные данные запроса"
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

// Handle POST /api/v1/appointments/{appointmentId}/{action}
// action: approve | decline | complete. Только для администратора.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID := vars["appointmentId"]
	if appointmentID == "" {
		handlers.RespondBadRequest(w, msgMissingAppointmentID)
		return
	}

	action, err := domain.ParseAction(vars["action"])
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/{action} - %v", err)
		handlers.RespondNotFound(w, msgUnknownAction)
		return
	}

	// Тело необязательно: пустое тело равносильно отсутствию причины
	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /appointments/{id}/%s - Invalid request body: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Transition(r.Context(), appointmentID, action, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNotFound):
			h.logger.Warn("POST /appointments/{id}/%s - Appointment not found: id=%s", action, appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/%s - Invalid transition: %v", action, err)
			handlers.RespondConflict(w, msgInvalidTransition)
		case errors.Is(err, appointments.ErrConcurrentUpdate):
			h.logger.Warn("POST /appointments/{id}/%s - Concurrent update: id=%s", action, appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/%s - Invalid input: %v", action, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /appointments/{id}/%s - Failed to apply transition: id=%s, error=%v", action, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/%s - Appointment updated: id=%s, status=%s", action, result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
