package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/pricing"
	"github.com/m04kA/SMC-DetailingService/internal/service/reservation"
	"github.com/m04kA/SMC-DetailingService/internal/service/window"
)

// notificationKind метка метрики неотправленных уведомлений о новой записи
const notificationKind = "appointment_created"

// UseCase use case для создания записи
type UseCase struct {
	policy       WindowPolicy
	pricing      PricingResolver
	guard        SlotGuard
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	policy WindowPolicy,
	pricing PricingResolver,
	guard SlotGuard,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		policy:       policy,
		pricing:      pricing,
		guard:        guard,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания записи.
// Порядок: валидация, горизонт бронирования, стоимость, атомарное занятие слота.
// Уведомление ставится в очередь после фиксации, его ошибка на результат не влияет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: date=%s, slot=%s, package=%q, addons=%d",
		req.Date, req.Slot, req.PackageID, len(req.AddonIDs))

	// 1. Валидация входных данных
	v, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата должна быть в горизонте бронирования
	if err := uc.policy.Validate(v.date); err != nil {
		if errors.Is(err, window.ErrOutOfWindow) {
			uc.logger.Warn("CreateAppointment: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrOutOfWindow, err)
		}
		uc.logger.Error("CreateAppointment: window check failed: %v", err)
		return nil, fmt.Errorf("%w: window check: %v", ErrInternal, err)
	}

	// 3. Стоимость по текущему каталогу
	quote, err := uc.pricing.Price(ctx, v.packageID, v.addonIDs)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnknownPackage):
			uc.logger.Warn("CreateAppointment: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUnknownPackage, err)
		case errors.Is(err, pricing.ErrUnknownAddon):
			uc.logger.Warn("CreateAppointment: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUnknownAddon, err)
		default:
			uc.logger.Error("CreateAppointment: failed to price booking: %v", err)
			return nil, fmt.Errorf("%w: failed to price booking: %v", ErrInternal, err)
		}
	}

	// 4. Занимаем слот
	now := uc.timeProvider.Now().UTC()
	draft := &domain.Appointment{
		ID:         uuid.NewString(),
		ClientName: v.clientName,
		Email:      v.email,
		Vehicle:    v.vehicle,
		Condition:  v.condition,
		PackageID:  quote.Package.ID,
		AddonIDs:   quote.AddonIDs(),
		Date:       v.date,
		Slot:       v.slot,
		TotalPrice: quote.Total,
		Status:     domain.StatusPending,
		AccountID:  req.AccountID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := uc.guard.Reserve(ctx, draft)
	if err != nil {
		if errors.Is(err, reservation.ErrSlotUnavailable) {
			uc.metrics.RecordSlotConflict(string(v.slot))
			uc.logger.Warn("CreateAppointment: %s %s unavailable", v.date, v.slot)
			return nil, fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		}
		uc.logger.Error("CreateAppointment: failed to reserve slot: %v", err)
		return nil, fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
	}

	uc.metrics.RecordAppointmentCreated(string(created.Slot))

	// 5. Уведомление (best effort)
	if err := uc.notifier.AppointmentCreated(ctx, created); err != nil {
		uc.metrics.RecordNotificationFailure(notificationKind)
		uc.logger.Warn("CreateAppointment: failed to enqueue notification for id=%s: %v", created.ID, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s, total=%d", created.ID, created.TotalPrice)

	return &Response{
		ID:         created.ID,
		ClientName: created.ClientName,
		Email:      created.Email,
		Vehicle:    created.Vehicle,
		Condition:  string(created.Condition),
		PackageID:  created.PackageID,
		AddonIDs:   created.AddonIDs,
		Date:       created.Date,
		Slot:       string(created.Slot),
		SlotLabel:  created.Slot.Label(),
		TotalPrice: created.TotalPrice,
		Status:     string(created.Status),
		AccountID:  created.AccountID,
		CreatedAt:  created.CreatedAt,
	}, nil
}
