package domain

import "fmt"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCompleted AppointmentStatus = "completed"
	StatusDeclined  AppointmentStatus = "declined"
)

// AllStatuses lists every appointment status
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
	StatusCompleted,
	StatusDeclined,
}

// ParseStatus parses a status name
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// OccupiesSlot returns true if an appointment in this status holds its (date, slot).
// Only declined appointments free their slot.
func (s AppointmentStatus) OccupiesSlot() bool {
	return s != StatusDeclined
}

// IsTerminal returns true if no further transitions are possible
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDeclined
}

// Action is an administrator operation on an appointment
type Action string

const (
	ActionApprove  Action = "approve"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
)

// ParseAction parses an action name
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionApprove, ActionDecline, ActionComplete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// NextStatus returns the status reached by applying action in status from.
//
//	pending  --approve-->  approved
//	pending  --decline-->  declined
//	approved --complete--> completed
//	approved --decline-->  declined
//
// Every other combination fails with ErrInvalidTransition.
func NextStatus(from AppointmentStatus, action Action) (AppointmentStatus, error) {
	switch from {
	case StatusPending:
		switch action {
		case ActionApprove:
			return StatusApproved, nil
		case ActionDecline:
			return StatusDeclined, nil
		}
	case StatusApproved:
		switch action {
		case ActionComplete:
			return StatusCompleted, nil
		case ActionDecline:
			return StatusDeclined, nil
		}
	case StatusCompleted, StatusDeclined:
	}
	return "", fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidTransition, action, from)
}
