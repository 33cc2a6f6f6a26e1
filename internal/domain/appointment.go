package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// VehicleCondition describes how much work the vehicle needs
type VehicleCondition string

const (
	ConditionDailyDriver    VehicleCondition = "Daily Driver"
	ConditionWellMaintained VehicleCondition = "Well Maintained"
	ConditionNeedsExtraLove VehicleCondition = "Needs Extra Love"
)

// AllConditions lists the vehicle conditions offered on the booking form
var AllConditions = []VehicleCondition{
	ConditionDailyDriver,
	ConditionWellMaintained,
	ConditionNeedsExtraLove,
}

// ParseCondition parses a vehicle condition
func ParseCondition(s string) (VehicleCondition, error) {
	for _, c := range AllConditions {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCondition, s)
}

// Appointment represents a booked detailing visit
type Appointment struct {
	ID            string
	ClientName    string
	Email         string
	Vehicle       string
	Condition     VehicleCondition
	PackageID     string
	AddonIDs      []string
	Date          types.Date
	Slot          Slot
	TotalPrice    int64 // whole currency units, fixed at creation
	Status        AppointmentStatus
	DeclineReason *string // set only for declined appointments
	AccountID     *string // nil for guest bookings
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OccupiesSlot returns true if the appointment holds its (date, slot)
func (a *Appointment) OccupiesSlot() bool {
	return a.Status.OccupiesSlot()
}

// IsOwnedBy returns true if the appointment belongs to the account
func (a *Appointment) IsOwnedBy(accountID string) bool {
	return a.AccountID != nil && *a.AccountID == accountID
}

// AppointmentFilter фильтр для списка записей
type AppointmentFilter struct {
	Status    *AppointmentStatus // Фильтр по статусу (опционально)
	StartDate *types.Date        // Начало периода включительно (опционально)
	EndDate   *types.Date        // Конец периода включительно (опционально)
	Slot      *Slot              // Фильтр по слоту (опционально)
	AccountID *string            // Только записи аккаунта (опционально)
}
