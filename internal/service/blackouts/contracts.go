package blackouts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// BlackoutRepository интерфейс репозитория блокировок
type BlackoutRepository interface {
	Upsert(ctx context.Context, entry *domain.BlackoutEntry) error
	Delete(ctx context.Context, date types.Date) error
	ListAll(ctx context.Context) ([]*domain.BlackoutEntry, error)
}

// DatePolicy проверка, что дата не в прошлом
type DatePolicy interface {
	ValidateNotPast(date types.Date) error
}

// AvailabilityInvalidator сбрасывает кэш доступности для дат
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, dates ...types.Date)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
