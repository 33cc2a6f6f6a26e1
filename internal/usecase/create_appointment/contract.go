package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/pricing"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// WindowPolicy горизонт бронирования
type WindowPolicy interface {
	Validate(date types.Date) error
}

// PricingResolver расчет стоимости записи
type PricingResolver interface {
	Price(ctx context.Context, packageID string, addonIDs []string) (*pricing.Quote, error)
}

// SlotGuard атомарное занятие слота
type SlotGuard interface {
	Reserve(ctx context.Context, draft *domain.Appointment) (*domain.Appointment, error)
}

// Notifier ставит уведомления в очередь
type Notifier interface {
	AppointmentCreated(ctx context.Context, a *domain.Appointment) error
}

// Metrics бизнес-метрики
type Metrics interface {
	RecordAppointmentCreated(slot string)
	RecordSlotConflict(slot string)
	RecordNotificationFailure(kind string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
