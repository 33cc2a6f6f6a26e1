package unblock_date

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type BlackoutService interface {
	Unblock(ctx context.Context, date types.Date) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
