package domain

import (
	"fmt"
	"strings"
)

// Slot is one of the two fixed daily booking windows
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
)

// AllSlots lists the daily slots in chronological order
var AllSlots = []Slot{SlotMorning, SlotAfternoon}

// ParseSlot parses a slot name. The short AM/PM forms used by the booking form are accepted too.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "am":
		return SlotMorning, nil
	case "afternoon", "pm":
		return SlotAfternoon, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
}

// IsValid returns true for a known slot
func (s Slot) IsValid() bool {
	return s == SlotMorning || s == SlotAfternoon
}

// Label returns the client-facing time range of the slot
func (s Slot) Label() string {
	switch s {
	case SlotMorning:
		return "7am–12pm"
	case SlotAfternoon:
		return "12pm–5pm"
	default:
		return string(s)
	}
}
