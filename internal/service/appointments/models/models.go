package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модели

// ListRequest запрос на получение списка записей (админ)
type ListRequest struct {
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"startDate,omitempty"` // "2024-06-01"
	EndDate   *string `json:"endDate,omitempty"`
	Slot      *string `json:"slot,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	var filter domain.AppointmentFilter

	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.Slot != nil {
		slot, err := domain.ParseSlot(*r.Slot)
		if err != nil {
			return filter, err
		}
		filter.Slot = &slot
	}

	if r.StartDate != nil {
		start, err := types.ParseDate(*r.StartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}

	if r.EndDate != nil {
		end, err := types.ParseDate(*r.EndDate)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &end
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, fmt.Errorf("end date %s is before start date %s", filter.EndDate, filter.StartDate)
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID            string   `json:"id"`
	ClientName    string   `json:"clientName"`
	Email         string   `json:"email"`
	Vehicle       string   `json:"vehicle"`
	Condition     string   `json:"condition"`
	PackageID     string   `json:"packageId"`
	AddonIDs      []string `json:"addonIds"`
	Date          string   `json:"date"` // "2024-06-02"
	Slot          string   `json:"slot"`
	SlotLabel     string   `json:"slotLabel"` // "7am–12pm"
	TotalPrice    int64    `json:"totalPrice"`
	Status        string   `json:"status"`
	DeclineReason *string  `json:"declineReason,omitempty"`
	AccountID     *string  `json:"accountId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	addons := a.AddonIDs
	if addons == nil {
		addons = []string{}
	}

	return &AppointmentResponse{
		ID:            a.ID,
		ClientName:    a.ClientName,
		Email:         a.Email,
		Vehicle:       a.Vehicle,
		Condition:     string(a.Condition),
		PackageID:     a.PackageID,
		AddonIDs:      addons,
		Date:          a.Date.String(),
		Slot:          string(a.Slot),
		SlotLabel:     a.Slot.Label(),
		TotalPrice:    a.TotalPrice,
		Status:        string(a.Status),
		DeclineReason: a.DeclineReason,
		AccountID:     a.AccountID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}
