package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-DetailingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "некорректные данные записи"
	msgOutOfWindow        = "дата вне доступного для записи периода"
	msgUnknownPackage     = "пакет услуг не найден"
	msgUnknownAddon       = "дополнительная опция не найдена"
	msgSlotUnavailable    = "выбранный слот недоступен, выберите другую дату или время"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Запись от авторизованного клиента привязывается к его аккаунту
	var accountID *string
	if id, ok := middleware.GetAccountID(r.Context()); ok {
		accountID = &id
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(accountID))
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrValidationFailed):
			h.logger.Warn("POST /appointments - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed+": "+errorDetail(err))

		case errors.Is(err, createAppointment.ErrOutOfWindow):
			h.logger.Warn("POST /appointments - Out of window: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgOutOfWindow)

		case errors.Is(err, createAppointment.ErrUnknownPackage):
			h.logger.Warn("POST /appointments - Unknown package: %q", req.Service)
			handlers.RespondBadRequest(w, msgUnknownPackage)

		case errors.Is(err, createAppointment.ErrUnknownAddon):
			h.logger.Warn("POST /appointments - Unknown add-on: %v", req.Addons)
			handlers.RespondBadRequest(w, msgUnknownAddon)

		case errors.Is(err, createAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: date=%s, slot=%s", req.Date, req.Slot)
			handlers.RespondConflict(w, msgSlotUnavailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: date=%s, slot=%s, error=%v",
				req.Date, req.Slot, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: id=%s, date=%s, slot=%s",
		result.ID, result.Date, result.Slot)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// errorDetail текст ошибки валидации без префикса пакета
func errorDetail(err error) string {
	msg := err.Error()
	prefix := createAppointment.ErrValidationFailed.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
