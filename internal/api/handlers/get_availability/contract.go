package get_availability

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type AvailabilityService interface {
	Summarize(ctx context.Context, start, end types.Date) ([]domain.DayAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
