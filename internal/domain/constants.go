package domain

// Booking policy constants
const (
	// BookingHorizonDays is how far ahead of today a date may be booked (inclusive)
	BookingHorizonDays = 60
	// MaxSummaryRangeDays limits a single availability summary request
	MaxSummaryRangeDays = 92
)

// Default texts
const (
	DefaultDeclineReason  = "No reason provided"
	DefaultBlackoutReason = "Unavailable"
)

// Field length limits
const (
	MaxClientNameLength = 100
	MaxEmailLength      = 254
	MaxVehicleLength    = 120
	MaxReasonLength     = 500
	MaxAddonsPerBooking = 20
	MaxCatalogIDLength  = 100
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
