package get_availability

import "github.com/m04kA/SMC-DetailingService/internal/domain"

// SlotsResponse открытость слотов дня
type SlotsResponse struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
}

// DayResponse доступность одной даты
type DayResponse struct {
	Date           string        `json:"date"`
	Slots          SlotsResponse `json:"slots"`
	BlockedByAdmin bool          `json:"blockedByAdmin"`
	FullyBooked    bool          `json:"fullyBooked"`
}

// SummaryResponse HTTP response model
type SummaryResponse struct {
	Days []DayResponse `json:"days"`
}

// FromDomainDays конвертирует доступность дней в HTTP response
func FromDomainDays(days []domain.DayAvailability) *SummaryResponse {
	resp := &SummaryResponse{Days: make([]DayResponse, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, DayResponse{
			Date: d.Date.String(),
			Slots: SlotsResponse{
				Morning:   d.IsOpen(domain.SlotMorning),
				Afternoon: d.IsOpen(domain.SlotAfternoon),
			},
			BlockedByAdmin: d.BlockedByAdmin,
			FullyBooked:    d.FullyBooked(),
		})
	}
	return resp
}
