package availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Calculator рассчитывает доступность слотов по датам
type Calculator struct {
	blackoutRepo    BlackoutRepository
	appointmentRepo AppointmentRepository
	cache           Cache
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewCalculator создает новый экземпляр калькулятора доступности
func NewCalculator(
	blackoutRepo BlackoutRepository,
	appointmentRepo AppointmentRepository,
	cache Cache,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Calculator {
	return &Calculator{
		blackoutRepo:    blackoutRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Summarize возвращает доступность каждой даты диапазона [start, end] по возрастанию.
// Результат может устареть к моменту бронирования: окончательная проверка
// выполняется при резервировании слота.
func (c *Calculator) Summarize(ctx context.Context, start, end types.Date) ([]domain.DayAvailability, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, end, start)
	}
	if span := start.DaysUntil(end) + 1; span > domain.MaxSummaryRangeDays {
		return nil, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrInvalidRange, span, domain.MaxSummaryRangeDays)
	}

	dates := types.DatesInRange(start, end)

	cached, err := c.cache.GetMany(ctx, dates)
	if err != nil {
		c.logger.Warn("Summarize: cache read failed, falling back to store: %v", err)
		cached = nil
	}
	if len(cached) == len(dates) {
		c.metrics.RecordCacheLookup(true)
		days := make([]domain.DayAvailability, len(dates))
		for i, d := range dates {
			days[i] = cached[d]
		}
		return days, nil
	}
	c.metrics.RecordCacheLookup(false)

	var days []domain.DayAvailability
	err = c.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		days, err = c.Compute(txCtx, start, end)
		return err
	})
	if err != nil {
		c.logger.Error("Summarize: failed to compute %s..%s: %v", start, end, err)
		return nil, err
	}

	missing := make([]domain.DayAvailability, 0, len(days)-len(cached))
	for _, day := range days {
		if _, ok := cached[day.Date]; !ok {
			missing = append(missing, day)
		}
	}
	if err := c.cache.SetMany(ctx, missing); err != nil {
		c.logger.Warn("Summarize: cache write failed: %v", err)
	}

	return days, nil
}

// Compute рассчитывает доступность по хранилищу, минуя кэш.
// Внутри транзакции читает согласованный снимок этой транзакции.
func (c *Calculator) Compute(ctx context.Context, start, end types.Date) ([]domain.DayAvailability, error) {
	blackouts, err := c.blackoutRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: Compute - list blackouts: %w", ErrInternal, err)
	}

	appointments, err := c.appointmentRepo.ListOccupyingInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: Compute - list appointments: %w", ErrInternal, err)
	}

	return BuildDays(types.DatesInRange(start, end), blackouts, appointments), nil
}

// Day рассчитывает доступность одной даты по хранилищу
func (c *Calculator) Day(ctx context.Context, date types.Date) (domain.DayAvailability, error) {
	days, err := c.Compute(ctx, date, date)
	if err != nil {
		return domain.DayAvailability{}, err
	}
	return days[0], nil
}

// Invalidate сбрасывает кэш дат после записи. Ошибки кэша только логируются.
func (c *Calculator) Invalidate(ctx context.Context, dates ...types.Date) {
	if err := c.cache.Invalidate(ctx, dates...); err != nil {
		c.logger.Warn("Invalidate: failed to invalidate %v: %v", dates, err)
	}
}
