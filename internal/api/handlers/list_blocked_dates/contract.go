package list_blocked_dates

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
)

type BlackoutService interface {
	ListEntries(ctx context.Context) (*models.BlockedDatesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
