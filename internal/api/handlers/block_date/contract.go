package block_date

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type BlackoutService interface {
	Block(ctx context.Context, date types.Date, reason *string) (*models.BlackoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
