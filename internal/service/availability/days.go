package availability

import (
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// BuildDays сворачивает блокировки и записи в доступность по каждой дате.
//
// Заблокированная администратором дата закрыта целиком. Иначе слот закрыт,
// если на него есть хотя бы одна запись в статусе pending, approved или completed.
// Отклоненные записи слот не занимают.
func BuildDays(dates []types.Date, blackouts []*domain.BlackoutEntry, appointments []*domain.Appointment) []domain.DayAvailability {
	blocked := make(map[types.Date]struct{}, len(blackouts))
	for _, b := range blackouts {
		blocked[b.Date] = struct{}{}
	}

	taken := make(map[types.Date]map[domain.Slot]struct{}, len(appointments))
	for _, a := range appointments {
		if !a.OccupiesSlot() {
			continue
		}
		if taken[a.Date] == nil {
			taken[a.Date] = make(map[domain.Slot]struct{}, len(domain.AllSlots))
		}
		taken[a.Date][a.Slot] = struct{}{}
	}

	days := make([]domain.DayAvailability, 0, len(dates))
	for _, date := range dates {
		day := domain.NewDayAvailability(date)

		if _, ok := blocked[date]; ok {
			day.BlockedByAdmin = true
			for _, s := range domain.AllSlots {
				day.SlotOpen[s] = false
			}
		} else {
			for s := range taken[date] {
				if s.IsValid() {
					day.SlotOpen[s] = false
				}
			}
		}

		days = append(days, day)
	}

	return days
}
