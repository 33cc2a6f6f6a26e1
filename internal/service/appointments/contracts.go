package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, declineReason *string, updatedAt time.Time) error
}

// AvailabilityInvalidator сбрасывает кэш доступности для дат
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, dates ...types.Date)
}

// Notifier ставит уведомления в очередь
type Notifier interface {
	AppointmentStatusChanged(ctx context.Context, a *domain.Appointment) error
}

// Metrics бизнес-метрики
type Metrics interface {
	RecordTransition(from, to string)
	RecordNotificationFailure(kind string)
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
