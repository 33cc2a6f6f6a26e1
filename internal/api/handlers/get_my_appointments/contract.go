package get_my_appointments

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByAccount(ctx context.Context, accountID string) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
