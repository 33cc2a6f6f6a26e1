package transition_appointment

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
)

type AppointmentService interface {
	Transition(ctx context.Context, id string, action domain.Action, reason *string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
