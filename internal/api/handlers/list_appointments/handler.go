package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
)

const (
	msgInvalidFilter = "некорректные параметры фильтра"
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

// Handle GET /api/v1/appointments?status=&start=&end=&slot=
// Только для администратора.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.ListRequest{
		Status:    optional(query.Get("status")),
		StartDate: optional(query.Get("start")),
		EndDate:   optional(query.Get("end")),
		Slot:      optional(query.Get("slot")),
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
		default:
			h.logger.Error("GET /appointments - Failed to list appointments: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
