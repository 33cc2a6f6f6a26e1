package domain

import "github.com/m04kA/SMC-DetailingService/pkg/types"

// DayAvailability is the derived bookability of a single date. It is never persisted.
type DayAvailability struct {
	Date           types.Date
	SlotOpen       map[Slot]bool
	BlockedByAdmin bool
}

// NewDayAvailability returns a day with every slot open
func NewDayAvailability(date types.Date) DayAvailability {
	open := make(map[Slot]bool, len(AllSlots))
	for _, s := range AllSlots {
		open[s] = true
	}
	return DayAvailability{Date: date, SlotOpen: open}
}

// IsOpen returns true if the slot can still be booked
func (d DayAvailability) IsOpen(slot Slot) bool {
	return d.SlotOpen[slot]
}

// FullyBooked returns true if every slot is taken by appointments and the day is not blocked
func (d DayAvailability) FullyBooked() bool {
	if d.BlockedByAdmin {
		return false
	}
	for _, s := range AllSlots {
		if d.SlotOpen[s] {
			return false
		}
	}
	return true
}

// HasOpenSlot returns true if at least one slot is open
func (d DayAvailability) HasOpenSlot() bool {
	for _, s := range AllSlots {
		if d.SlotOpen[s] {
			return true
		}
	}
	return false
}
