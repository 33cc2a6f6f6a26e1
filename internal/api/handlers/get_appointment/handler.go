package get_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments"
)

const (
	msgMissingAppointmentID = "отсутствует ID записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "нет доступа к записи"
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

// Handle GET /api/v1/appointments/{appointmentId}
// Доступно владельцу записи и администратору.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]
	if appointmentID == "" {
		handlers.RespondBadRequest(w, msgMissingAppointmentID)
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	appointment, err := h.service.GetByID(r.Context(), appointmentID, principal.AccountID, principal.Role == middleware.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNotFound):
			h.logger.Warn("GET /appointments/{id} - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id} - Access denied: id=%s, account=%s", appointmentID, principal.AccountID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, appointment)
}
