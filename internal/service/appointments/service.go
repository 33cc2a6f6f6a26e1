package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
)

// maxTransitionAttempts сколько раз перечитываем запись, если статус изменился между чтением и записью
const maxTransitionAttempts = 3

// notificationKind метка метрики неотправленных уведомлений о смене статуса
const notificationKind = "status_changed"

// Service машина состояний записи: approve, decline, complete и чтение записей
type Service struct {
	appointmentRepo AppointmentRepository
	availability    AvailabilityInvalidator
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	availability AvailabilityInvalidator,
	notifier Notifier,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Approve переводит запись pending -> approved
func (s *Service) Approve(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, id, domain.ActionApprove, nil)
}

// Decline отклоняет запись в статусе pending или approved и освобождает её слот.
// Пустая причина заменяется на domain.DefaultDeclineReason.
func (s *Service) Decline(ctx context.Context, id string, reason *string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, id, domain.ActionDecline, reason)
}

// Complete переводит запись approved -> completed
func (s *Service) Complete(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, id, domain.ActionComplete, nil)
}

// Transition применяет action к записи.
// Смена статуса - compare-and-set по текущему статусу: если запись изменилась
// между чтением и записью, она перечитывается и переход проверяется заново.
func (s *Service) Transition(ctx context.Context, id string, action domain.Action, reason *string) (*models.AppointmentResponse, error) {
	s.logger.Info("Transition: %s appointment id=%s", action, id)

	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("Transition: malformed appointment id=%q", id)
		return nil, ErrNotFound
	}

	var declineReason *string
	if action == domain.ActionDecline {
		normalized, err := normalizeReason(reason)
		if err != nil {
			s.logger.Warn("Transition: invalid decline reason for id=%s: %v", id, err)
			return nil, err
		}
		declineReason = &normalized
	}

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		appointment, err := s.load(ctx, "Transition", id)
		if err != nil {
			return nil, err
		}

		from := appointment.Status
		to, err := domain.NextStatus(from, action)
		if err != nil {
			s.logger.Warn("Transition: %v (id=%s)", err, id)
			return nil, fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidTransition, action, from)
		}

		now := s.timeProvider.Now()
		err = s.appointmentRepo.UpdateStatus(ctx, id, from, to, declineReason, now)
		switch {
		case err == nil:
			appointment.Status = to
			appointment.DeclineReason = declineReason
			appointment.UpdatedAt = now
			s.afterTransition(ctx, appointment, from)
			return models.FromDomainAppointment(appointment), nil
		case errors.Is(err, appointmentRepo.ErrStatusConflict):
			s.logger.Warn("Transition: status of id=%s changed concurrently, attempt %d/%d", id, attempt, maxTransitionAttempts)
			continue
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Transition: appointment id=%s not found during update", id)
			return nil, ErrNotFound
		default:
			s.logger.Error("Transition: repository error for id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Error("Transition: gave up on id=%s after %d attempts", id, maxTransitionAttempts)
	return nil, ErrConcurrentUpdate
}

// GetByID возвращает запись владельцу или администратору
func (s *Service) GetByID(ctx context.Context, id string, accountID string, isAdmin bool) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for account=%s", id, accountID)

	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("GetByID: malformed appointment id=%q", id)
		return nil, ErrNotFound
	}

	appointment, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !appointment.IsOwnedBy(accountID) {
		s.logger.Warn("GetByID: access denied for account=%s to appointment id=%s", accountID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// List возвращает записи по фильтру (для администратора)
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// ListByAccount возвращает записи, созданные аккаунтом
func (s *Service) ListByAccount(ctx context.Context, accountID string) (*models.AppointmentListResponse, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{AccountID: &accountID})
	if err != nil {
		s.logger.Error("ListByAccount: repository error for account=%s: %v", accountID, err)
		return nil, fmt.Errorf("%w: ListByAccount - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByAccount: fetched %d appointments for account=%s", len(appointments), accountID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Вспомогательные методы

func (s *Service) load(ctx context.Context, op string, id string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrNotFound
		}
		s.logger.Error("%s: repository error for id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// afterTransition побочные эффекты успешного перехода. Ошибки не влияют на результат.
func (s *Service) afterTransition(ctx context.Context, appointment *domain.Appointment, from domain.AppointmentStatus) {
	s.metrics.RecordTransition(string(from), string(appointment.Status))

	if !appointment.OccupiesSlot() {
		s.availability.Invalidate(ctx, appointment.Date)
	}

	if err := s.notifier.AppointmentStatusChanged(ctx, appointment); err != nil {
		s.metrics.RecordNotificationFailure(notificationKind)
		s.logger.Warn("Transition: failed to enqueue notification for id=%s: %v", appointment.ID, err)
	}

	s.logger.Info("Transition: appointment id=%s %s -> %s", appointment.ID, from, appointment.Status)
}

func normalizeReason(reason *string) (string, error) {
	if reason == nil {
		return domain.DefaultDeclineReason, nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return domain.DefaultDeclineReason, nil
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxReasonLength {
		return "", fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return trimmed, nil
}
