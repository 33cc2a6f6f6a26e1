package models

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BlackoutResponse заблокированная дата
type BlackoutResponse struct {
	Date      string    `json:"date"` // "2024-06-10"
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedDatesResponse список заблокированных дат
type BlockedDatesResponse struct {
	BlockedDates []string           `json:"blockedDates"`
	Entries      []BlackoutResponse `json:"entries"`
}

// FromDomainBlackout конвертирует domain модель в DTO
func FromDomainBlackout(e *domain.BlackoutEntry) *BlackoutResponse {
	if e == nil {
		return nil
	}
	return &BlackoutResponse{
		Date:      e.Date.String(),
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список блокировок в DTO
func FromDomainBlackoutList(entries []*domain.BlackoutEntry) *BlockedDatesResponse {
	resp := &BlockedDatesResponse{
		BlockedDates: make([]string, 0, len(entries)),
		Entries:      make([]BlackoutResponse, 0, len(entries)),
	}
	for _, e := range entries {
		if item := FromDomainBlackout(e); item != nil {
			resp.BlockedDates = append(resp.BlockedDates, item.Date)
			resp.Entries = append(resp.Entries, *item)
		}
	}
	return resp
}
