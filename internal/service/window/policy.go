package window

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Policy горизонт бронирования [сегодня, сегодня + BookingHorizonDays].
// "Сегодня" вычисляется заново при каждом вызове во временной зоне мастерской.
type Policy struct {
	location     *time.Location
	timeProvider TimeProvider
}

// NewPolicy создает политику. timeProvider может быть nil - тогда используется системное время.
func NewPolicy(location *time.Location, timeProvider TimeProvider) *Policy {
	if location == nil {
		location = time.UTC
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Policy{
		location:     location,
		timeProvider: timeProvider,
	}
}

// Today текущая дата во временной зоне мастерской
func (p *Policy) Today() types.Date {
	return types.DateOf(p.timeProvider.Now().In(p.location))
}

// Bounds первая и последняя бронируемые даты
func (p *Policy) Bounds() (types.Date, types.Date) {
	today := p.Today()
	return today, today.AddDays(domain.BookingHorizonDays)
}

// Validate проверяет, что дату можно бронировать
func (p *Policy) Validate(date types.Date) error {
	first, last := p.Bounds()
	if date.Before(first) || date.After(last) {
		return fmt.Errorf("%w: %s is not within %s..%s", ErrOutOfWindow, date, first, last)
	}
	return nil
}

// ValidateNotPast проверяет, что дата не раньше сегодняшней
func (p *Policy) ValidateNotPast(date types.Date) error {
	if today := p.Today(); date.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidDate, date, today)
	}
	return nil
}
