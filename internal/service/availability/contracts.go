package availability

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// BlackoutRepository интерфейс репозитория блокировок
type BlackoutRepository interface {
	ListInRange(ctx context.Context, start, end types.Date) ([]*domain.BlackoutEntry, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListOccupyingInRange(ctx context.Context, start, end types.Date) ([]*domain.Appointment, error)
}

// Cache кэш рассчитанной доступности
type Cache interface {
	GetMany(ctx context.Context, dates []types.Date) (map[types.Date]domain.DayAvailability, error)
	SetMany(ctx context.Context, days []domain.DayAvailability) error
	Invalidate(ctx context.Context, dates ...types.Date) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики
type Metrics interface {
	RecordCacheLookup(hit bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
