package domain

import "errors"

var (
	// ErrInvalidTransition is returned for a status change not allowed by the lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownSlot is returned when a slot name is not recognised
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrUnknownStatus is returned when a status name is not recognised
	ErrUnknownStatus = errors.New("unknown appointment status")

	// ErrUnknownAction is returned when an action name is not recognised
	ErrUnknownAction = errors.New("unknown appointment action")

	// ErrUnknownCondition is returned when a vehicle condition is not recognised
	ErrUnknownCondition = errors.New("unknown vehicle condition")
)
