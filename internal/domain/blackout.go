package domain

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// BlackoutEntry is a date closed for new bookings by an administrator.
// Both slots are closed; there is no per-slot blackout.
type BlackoutEntry struct {
	Date      types.Date
	Reason    string
	CreatedAt time.Time
}
