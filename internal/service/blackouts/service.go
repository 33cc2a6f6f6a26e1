package blackouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	blackoutRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blackout"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Service реестр дат, закрытых администратором.
// Блокировка не отменяет уже существующие записи на дату, она только запрещает новые.
type Service struct {
	blackoutRepo BlackoutRepository
	policy       DatePolicy
	availability AvailabilityInvalidator
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	blackoutRepo BlackoutRepository,
	policy DatePolicy,
	availability AvailabilityInvalidator,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		blackoutRepo: blackoutRepo,
		policy:       policy,
		availability: availability,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Block закрывает дату для новых записей. Повторная блокировка обновляет причину.
func (s *Service) Block(ctx context.Context, date types.Date, reason *string) (*models.BlackoutResponse, error) {
	s.logger.Info("Block: blocking date=%s", date)

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if err := s.policy.ValidateNotPast(date); err != nil {
		s.logger.Warn("Block: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	normalized, err := normalizeReason(reason)
	if err != nil {
		s.logger.Warn("Block: invalid reason for date=%s: %v", date, err)
		return nil, err
	}

	entry := &domain.BlackoutEntry{
		Date:      date,
		Reason:    normalized,
		CreatedAt: s.timeProvider.Now(),
	}
	if err := s.blackoutRepo.Upsert(ctx, entry); err != nil {
		s.logger.Error("Block: repository error for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: Block - repository error: %v", ErrInternal, err)
	}

	s.availability.Invalidate(ctx, date)

	s.logger.Info("Block: date=%s blocked, reason=%q", date, normalized)
	return models.FromDomainBlackout(entry), nil
}

// Unblock снимает блокировку с даты
func (s *Service) Unblock(ctx context.Context, date types.Date) error {
	s.logger.Info("Unblock: unblocking date=%s", date)

	if err := s.blackoutRepo.Delete(ctx, date); err != nil {
		if errors.Is(err, blackoutRepo.ErrBlackoutNotFound) {
			s.logger.Warn("Unblock: date=%s is not blocked", date)
			return fmt.Errorf("%w: %s", ErrNotBlocked, date)
		}
		s.logger.Error("Unblock: repository error for date=%s: %v", date, err)
		return fmt.Errorf("%w: Unblock - repository error: %v", ErrInternal, err)
	}

	s.availability.Invalidate(ctx, date)

	s.logger.Info("Unblock: date=%s unblocked", date)
	return nil
}

// ListBlockedDates возвращает все заблокированные даты по возрастанию
func (s *Service) ListBlockedDates(ctx context.Context) ([]types.Date, error) {
	entries, err := s.blackoutRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}

	dates := make([]types.Date, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	return dates, nil
}

// ListEntries возвращает все блокировки вместе с причинами
func (s *Service) ListEntries(ctx context.Context) (*models.BlockedDatesResponse, error) {
	entries, err := s.blackoutRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("ListEntries: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListEntries - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListEntries: fetched %d blocked dates", len(entries))
	return models.FromDomainBlackoutList(entries), nil
}

func normalizeReason(reason *string) (string, error) {
	if reason == nil {
		return domain.DefaultBlackoutReason, nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return domain.DefaultBlackoutReason, nil
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxReasonLength {
		return "", fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return trimmed, nil
}
