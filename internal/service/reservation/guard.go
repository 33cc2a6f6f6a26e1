package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

// Guard атомарно занимает пару (дата, слот) под новую запись.
//
// Проверка доступности и вставка выполняются в одной сериализуемой транзакции.
// Окончательное решение принимает уникальный индекс по (дата, слот) для записей
// не в статусе declined: из двух конкурентных запросов успешен только первый
// зафиксированный. Освобождение слота отдельно не выполняется - слот
// освобождается при переходе записи в declined.
type Guard struct {
	calculator      DayCalculator
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewGuard создает новый экземпляр guard
func NewGuard(
	calculator DayCalculator,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Guard {
	return &Guard{
		calculator:      calculator,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Reserve сохраняет draft, если его (дата, слот) открыт на момент фиксации.
// Возвращает ErrSlotUnavailable, если дата заблокирована или слот уже занят.
func (g *Guard) Reserve(ctx context.Context, draft *domain.Appointment) (*domain.Appointment, error) {
	err := g.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Занятые строки даты блокируются до фиксации вставки
		day, err := g.calculator.Day(dbmetrics.WithRowLock(txCtx), draft.Date)
		if err != nil {
			return fmt.Errorf("%w: Reserve - compute availability: %w", ErrInternal, err)
		}

		if day.BlockedByAdmin {
			return fmt.Errorf("%w: %s is blocked", ErrSlotUnavailable, draft.Date)
		}
		if !day.IsOpen(draft.Slot) {
			return fmt.Errorf("%w: %s %s is already booked", ErrSlotUnavailable, draft.Date, draft.Slot)
		}

		if err := g.appointmentRepo.Create(txCtx, draft); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return fmt.Errorf("%w: %s %s was taken concurrently", ErrSlotUnavailable, draft.Date, draft.Slot)
			}
			return fmt.Errorf("%w: Reserve - create appointment: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			g.logger.Warn("Reserve: %v", err)
			return nil, err
		}
		g.logger.Error("Reserve: failed to reserve %s %s: %v", draft.Date, draft.Slot, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	g.calculator.Invalidate(ctx, draft.Date)
	g.logger.Info("Reserve: reserved %s %s for appointment id=%s", draft.Date, draft.Slot, draft.ID)

	return draft, nil
}
